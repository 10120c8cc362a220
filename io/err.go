package io

import (
	"errors"

	"github.com/ezrec/sim8085/translate"
)

var f = translate.From

var (
	// Port errors
	ErrPortRead  = errors.New(f("port read"))
	ErrPortWrite = errors.New(f("port write"))
	ErrPortFull  = errors.New(f("port full"))
)
