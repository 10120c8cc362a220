package cpu

import (
	"errors"

	"github.com/ezrec/sim8085/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrInvalidRegister     = errors.New(f("invalid register index"))
	ErrUnimplementedOpcode = errors.New(f("unimplemented opcode"))
	ErrHalted              = errors.New(f("halted"))

	// Instruction dispatch errors
	ErrOpcodeDecode = errors.New(f("decode"))
	ErrOpcodePort   = errors.New(f("port"))
)

// ErrOpcode names the instruction that failed to execute.
type ErrOpcode Op

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x %v", eo.Opcode, Op(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrUnimplemented reports an opcode byte with no instruction mapping, and
// the address it was fetched from.
type ErrUnimplemented struct {
	Opcode uint8
	Pc     uint16
}

func (err *ErrUnimplemented) Error() string {
	return f("unimplemented opcode 0x%02x at 0x%04x", err.Opcode, err.Pc)
}

func (err *ErrUnimplemented) Is(target error) bool {
	return target == ErrUnimplementedOpcode
}
