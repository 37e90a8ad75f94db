package ecparams

import "github.com/go-errors/errors"

var (
	ErrUnknownCurve      = errors.New("unknown curve")
	ErrInvalidDescriptor = errors.New("invalid curve descriptor")
)
