package io

// Fifo implements a circular loopback queue of bytes.
// Values written to the port are read back in order.
type Fifo struct {
	Capacity int   // Capacity in bytes.
	Empty    uint8 // Value read from an empty queue.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []uint8
}

var _ Port = (*Fifo)(nil)

// Rewind resets the queue to empty, resetting indices and
// reinitializing the data buffer.
func (fifo *Fifo) Rewind() {
	fifo.ReadIndex = 0
	fifo.WriteIndex = 0
	fifo.Size = 0
	fifo.Capacity = max(fifo.Capacity, 0)
	fifo.Data = make([]uint8, fifo.Capacity)
}

// In removes the oldest byte from the queue.
func (fifo *Fifo) In(port uint8) (value uint8, err error) {
	if fifo.Size == 0 {
		value = fifo.Empty
		return
	}

	value = fifo.Data[fifo.ReadIndex]
	fifo.ReadIndex++
	if fifo.ReadIndex == fifo.Capacity {
		fifo.ReadIndex = 0
	}
	fifo.Size--

	return
}

// Out appends a byte to the queue.
// Returns ErrPortFull if the queue has reached capacity.
func (fifo *Fifo) Out(port uint8, value uint8) (err error) {
	if len(fifo.Data) != fifo.Capacity {
		fifo.Rewind()
	}

	if fifo.Size >= fifo.Capacity {
		err = ErrPortFull
		return
	}

	fifo.Data[fifo.WriteIndex] = value

	fifo.WriteIndex++
	if fifo.WriteIndex == fifo.Capacity {
		fifo.WriteIndex = 0
	}
	fifo.Size++

	return
}
