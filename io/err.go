package io

import (
	"errors"

	"github.com/ezrec/rv32/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull   = errors.New(f("channel full"))
	ErrChannelClosed = errors.New(f("channel closed"))
)
