package io

import (
	"fmt"
	"iter"
)

// busDevice is a device attached to a port number.
type busDevice struct {
	Name   string
	Device Port
}

// Bus routes each port number to its attached device.
// Ports with no device fall through to a Latch.
type Bus struct {
	Latch Latch

	device map[uint8]busDevice
}

var _ Port = (*Bus)(nil)

// Attach connects a device to a port number, replacing any prior device.
// A nil device detaches the port.
func (bus *Bus) Attach(name string, port uint8, device Port) {
	if device == nil {
		delete(bus.device, port)
		return
	}

	if bus.device == nil {
		bus.device = make(map[uint8]busDevice)
	}
	bus.device[port] = busDevice{Name: name, Device: device}
}

// Device returns the device attached to a port number.
func (bus *Bus) Device(port uint8) (device Port, ok bool) {
	dev, ok := bus.device[port]
	if ok {
		device = dev.Device
	}
	return
}

// Defines returns an iterator of the attached device names and their port
// numbers.
func (bus *Bus) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for port, dev := range bus.device {
			if !yield(dev.Name, fmt.Sprintf("%#x", port)) {
				return
			}
		}
	}
}

func (bus *Bus) In(port uint8) (value uint8, err error) {
	dev, ok := bus.device[port]
	if !ok {
		return bus.Latch.In(port)
	}
	return dev.Device.In(port)
}

func (bus *Bus) Out(port uint8, value uint8) (err error) {
	dev, ok := bus.device[port]
	if !ok {
		return bus.Latch.Out(port, value)
	}
	return dev.Device.Out(port, value)
}
