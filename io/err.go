package io

import (
	"errors"

	"github.com/ezrec/mrtcpu/translate"
)

var f = translate.From

var (
	// Storage errors
	ErrOutOfBounds = errors.New(f("out of bounds"))
	ErrRomLoaded   = errors.New(f("rom already loaded"))
)
