package ec

// ShamirStrategy selects the algorithm behind SumOfTwoMultiplies.
type ShamirStrategy int

const (
	// ShamirAuto uses interleaved windowed NAF unless one of the scalars is
	// shorter than the first window size cutoff, where the joint sparse form
	// is cheaper.
	ShamirAuto ShamirStrategy = iota
	ShamirJSF
	ShamirWNaf
)

// Config holds the construction-time choices of a curve.
type Config struct {
	// Coordinates is the point representation used by the curve.
	Coordinates CoordinateSystem

	// Multiplier computes k·P for Point.Multiply. Nil selects a WNafL2RMultiplier.
	Multiplier Multiplier

	ShamirStrategy ShamirStrategy
}

// DefaultConfig returns the configuration used by NewCurve.
func DefaultConfig() Config {
	return Config{
		Coordinates: DefaultCoordinates,
		Multiplier:  NewWNafL2RMultiplier(),
	}
}
