// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package device

import (
	"fmt"
	"strings"

	"github.com/gotmc/libusb"
)

// LabJack USB identifiers.
const (
	VendorID uint16 = 0x0cd5

	ProductIDU3  uint16 = 0x0003
	ProductIDU6  uint16 = 0x0006
	ProductIDUE9 uint16 = 0x0009
)

const (
	defaultTimeout = 1000 // ms, command endpoint transfers
	streamTimeout  = 1000 // ms, stream endpoint reads
)

// USB is a Transporter over the LabJack's bulk interface: EP1 out carries
// commands, EP2 in carries responses, and EP3 in carries stream data.
type USB struct {
	Timeout          int
	StreamTimeout    int
	Device           *libusb.Device
	DeviceHandle     *libusb.DeviceHandle
	DeviceDescriptor *libusb.DeviceDescriptor
	ConfigDescriptor *libusb.ConfigDescriptor
	OutEndpoint      *libusb.EndpointDescriptor
	InEndpoint       *libusb.EndpointDescriptor
	StreamEndpoint   *libusb.EndpointDescriptor
}

// Init initializes a new libusb session/context by creating a new Context
// and returning a pointer to that Context.
func Init() (*libusb.Context, error) {
	return libusb.NewContext()
}

// OpenUSB opens the first attached LabJack with the given product ID.
func OpenUSB(ctx *libusb.Context, productID uint16) (*USB, error) {
	dev, dh, err := ctx.OpenDeviceWithVendorProduct(VendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("error opening LabJack with product ID 0x%04x: %s", productID, err)
	}
	return claim(dev, dh)
}

// OpenUSBViaSN searches the attached devices with the given product ID for
// the one whose serial number string matches sn.
func OpenUSBViaSN(ctx *libusb.Context, productID uint16, sn string) (*USB, error) {
	usbDevices, err := ctx.GetDeviceList()
	if err != nil {
		return nil, fmt.Errorf("error getting USB device list: %s", err)
	}
	for _, usbDevice := range usbDevices {
		usbDeviceDescriptor, err := usbDevice.GetDeviceDescriptor()
		if err != nil {
			return nil, fmt.Errorf("error getting device descriptor: %s", err)
		}
		if usbDeviceDescriptor.VendorID != VendorID ||
			usbDeviceDescriptor.ProductID != productID {
			continue
		}
		usbDeviceHandle, err := usbDevice.Open()
		if err != nil {
			return nil, fmt.Errorf("error getting device handle: %s", err)
		}
		serialNum, err := usbDeviceHandle.GetStringDescriptorASCII(
			usbDeviceDescriptor.SerialNumberIndex)
		if err != nil {
			usbDeviceHandle.Close()
			return nil, fmt.Errorf("error reading S/N: %s", err)
		}
		if serialNum == sn {
			return claim(usbDevice, usbDeviceHandle)
		}
		usbDeviceHandle.Close()
	}
	return nil, fmt.Errorf("couldn't find a LabJack with S/N %s", sn)
}

func claim(dev *libusb.Device, dh *libusb.DeviceHandle) (*USB, error) {
	if err := dh.ClaimInterface(0); err != nil {
		return nil, fmt.Errorf("error claiming the bulk interface: %s", err)
	}
	usb := USB{
		Timeout:       defaultTimeout,
		StreamTimeout: streamTimeout,
		Device:        dev,
		DeviceHandle:  dh,
	}
	deviceDescriptor, err := dev.GetDeviceDescriptor()
	if err != nil {
		return nil, fmt.Errorf("error getting device descriptor: %s", err)
	}
	usb.DeviceDescriptor = deviceDescriptor
	configDescriptor, err := dev.GetActiveConfigDescriptor()
	if err != nil {
		return nil, fmt.Errorf("error getting active config descriptor: %s", err)
	}
	usb.ConfigDescriptor = configDescriptor
	firstDescriptor := configDescriptor.SupportedInterfaces[0].InterfaceDescriptors[0]
	// The LabJack interface exposes its endpoints in order: command out,
	// command in, stream in.
	if len(firstDescriptor.EndpointDescriptors) < 3 {
		return nil, fmt.Errorf("expected 3 bulk endpoints, found %d",
			len(firstDescriptor.EndpointDescriptors))
	}
	usb.OutEndpoint = firstDescriptor.EndpointDescriptors[0]
	usb.InEndpoint = firstDescriptor.EndpointDescriptors[1]
	usb.StreamEndpoint = firstDescriptor.EndpointDescriptors[2]
	return &usb, nil
}

// Write sends p out the command endpoint.
func (u *USB) Write(p []byte) (int, error) {
	return u.DeviceHandle.BulkTransfer(
		u.OutEndpoint.EndpointAddress,
		p,
		len(p),
		u.Timeout,
	)
}

// Read fills p from the response endpoint, blocking up to the command
// timeout.
func (u *USB) Read(p []byte) (n int, err error) {
	return u.DeviceHandle.BulkTransfer(
		u.InEndpoint.EndpointAddress,
		p,
		len(p),
		u.Timeout,
	)
}

// ReadStream fills p from the stream endpoint. A host-side timeout with
// nothing received reports zero bytes and no error; at slow scan rates
// that is the normal idle condition, not a failure.
func (u *USB) ReadStream(p []byte) (int, error) {
	n, err := u.DeviceHandle.BulkTransfer(
		u.StreamEndpoint.EndpointAddress,
		p,
		len(p),
		u.StreamTimeout,
	)
	return streamReadResult(n, err)
}

// streamReadResult maps the stream endpoint's host-side timeout to a
// short read; any other transfer error is surfaced to the caller.
func streamReadResult(n int, err error) (int, error) {
	if err == nil || isUSBTimeout(err) {
		return n, nil
	}
	return n, err
}

// The libusb wrapper reports transfer failures as opaque formatted
// errors, so the timeout case is recognized by its libusb error name.
func isUSBTimeout(err error) bool {
	return strings.Contains(err.Error(), "LIBUSB_ERROR_TIMEOUT")
}

// Close releases the claimed interface and closes the handle.
func (u *USB) Close() error {
	if err := u.DeviceHandle.ReleaseInterface(0); err != nil {
		return fmt.Errorf("error releasing interface: %s", err)
	}
	u.DeviceHandle.Close()
	return nil
}
