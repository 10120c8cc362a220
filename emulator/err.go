package emulator

import (
	"errors"

	"github.com/ezrec/sim8085/translate"
)

var f = translate.From

var (
	ErrStepBudget = errors.New(f("step budget exhausted"))
	ErrConfig     = errors.New(f("config"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Pc     uint16
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d pc 0x%04x %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrConfigValue names a configuration key with an unusable value.
type ErrConfigValue string

func (err ErrConfigValue) Error() string {
	return f("invalid config value for '%v'", string(err))
}

// ErrConfigKey names a configuration key that is not recognized.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("unknown config key '%v'", string(err))
}
