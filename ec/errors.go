package ec

import "github.com/go-errors/errors"

var (
	// ErrFieldMismatch is the panic value when elements of different prime
	// fields are combined.
	ErrFieldMismatch = errors.New("field elements belong to different fields")
	// ErrCurveMismatch is returned, or used as panic value inside point
	// arithmetic, when points of different curves are combined without import.
	ErrCurveMismatch = errors.New("points must be on the same curve")

	ErrValueOutOfRange         = errors.New("value invalid for field element")
	ErrZeroInverse             = errors.New("cannot invert zero")
	ErrEncodingTooLong         = errors.New("standard length exceeded")
	ErrInvalidEncoding         = errors.New("invalid point encoding")
	ErrInvalidPointCompression = errors.New("invalid point compression")
	ErrUnsupportedCoordinates  = errors.New("unsupported coordinate system")
	ErrInvalidArguments        = errors.New("point and scalar arrays should be non-empty and of equal length")
	ErrInvalidCurveParameters  = errors.New("invalid curve parameters")
)
