package io

import (
	"errors"
	"io"
)

// Tape provides sequential I/O for byte streams.
// It wraps an io.Reader for input and an io.Writer for output.
// Reads past the end of input return EndOfTape, and set Eof.
type Tape struct {
	Input     io.Reader
	Output    io.Writer
	EndOfTape uint8 // Value read once input is exhausted.

	Eof bool // Set once input is exhausted.
}

var _ Port = (*Tape)(nil)

// Rewind clears the end of input state.
func (tc *Tape) Rewind() {
	tc.Eof = false
}

// In reads the next byte from the input stream.
func (tc *Tape) In(port uint8) (value uint8, err error) {
	if tc.Input == nil || tc.Eof {
		value = tc.EndOfTape
		return
	}

	var one [1]byte
	_, err = io.ReadFull(tc.Input, one[:])
	if errors.Is(err, io.EOF) {
		tc.Eof = true
		value = tc.EndOfTape
		err = nil
		return
	}
	if err != nil {
		err = errors.Join(ErrPortRead, err)
		return
	}

	value = one[0]
	return
}

// Out writes a byte to the output stream.
// Writes are dropped when there is no output.
func (tc *Tape) Out(port uint8, value uint8) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		err = errors.Join(ErrPortWrite, err)
	}

	return
}
