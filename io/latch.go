package io

// Latch holds the last value written to each port. Reading a port returns
// that value.
type Latch [256]uint8

var _ Port = (*Latch)(nil)

func (latch *Latch) In(port uint8) (value uint8, err error) {
	value = latch[port]
	return
}

func (latch *Latch) Out(port uint8, value uint8) (err error) {
	latch[port] = value
	return
}

// Reset clears all ports.
func (latch *Latch) Reset() {
	clear(latch[:])
}
