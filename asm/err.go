package asm

import (
	"errors"

	"github.com/ezrec/sim8085/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax       = errors.New(f("EQU syntax"))
	ErrEquateDuplicate    = errors.New(f("EQU duplicated"))
	ErrEquateLoop         = errors.New(f("EQU refers to itself"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrMacroRecursion     = errors.New(f(".macro expansion too deep"))
	ErrOperandExtra       = errors.New(f("excessive operands"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrOperandInvalid     = errors.New(f("operand invalid"))
	ErrOperandRange       = errors.New(f("operand out of range"))
	ErrStringUnterminated = errors.New(f("unterminated string"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or label", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
