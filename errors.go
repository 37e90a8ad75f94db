package uprove

import "github.com/go-errors/errors"

var (
	// ErrFieldMismatch is the panic value when elements of different FieldZq
	// instances are combined.
	ErrFieldMismatch = errors.New("field elements belong to different fields")
	// ErrGroupMismatch is returned, or used as panic value inside element
	// arithmetic, when elements of different groups are combined.
	ErrGroupMismatch = errors.New("group elements belong to different groups")

	ErrInvalidField    = errors.New("invalid field modulus")
	ErrZeroInverse     = errors.New("cannot invert zero")
	ErrInvalidElement  = errors.New("invalid group element")
	ErrInvalidGroup    = errors.New("invalid group parameters")
	ErrUnknownGroup    = errors.New("unknown group")
	ErrLengthMismatch  = errors.New("bases and exponents should be non-empty and of equal length")
	ErrDerivationLimit = errors.New("element derivation counter exhausted")
)
