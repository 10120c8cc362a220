// Package io provides I/O port targets for the 8085 IN and OUT instructions.
// Ports are opaque byte pass-through devices: a Latch that remembers the last
// value written to each port, a Tape that streams bytes to and from an
// io.Reader and io.Writer, a Fifo loopback queue, and a Bus that routes port
// numbers to devices.
package io

// Port defines the interface for all I/O port targets.
type Port interface {
	// In reads a byte from the port.
	In(port uint8) (value uint8, err error)
	// Out writes a byte to the port.
	Out(port uint8, value uint8) (err error)
}
