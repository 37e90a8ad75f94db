package ec

import "fmt"

// CoordinateSystem selects the point representation of a curve. It is fixed
// when the curve is constructed.
type CoordinateSystem int

const (
	// Affine points are (x, y).
	Affine CoordinateSystem = iota
	// Homogeneous points are (X, Y, Z) with x = X/Z, y = Y/Z.
	Homogeneous
	// Jacobian points are (X, Y, Z) with x = X/Z², y = Y/Z³.
	Jacobian
	// JacobianChudnovsky points carry Z² and Z³ next to Z. Not supported by
	// prime curves.
	JacobianChudnovsky
	// JacobianModified points are Jacobian points carrying W = aZ⁴, which makes
	// repeated doubling cheaper.
	JacobianModified
)

// DefaultCoordinates is the coordinate system of curves created by NewCurve.
const DefaultCoordinates = JacobianModified

func (c CoordinateSystem) String() string {
	switch c {
	case Affine:
		return "affine"
	case Homogeneous:
		return "homogeneous"
	case Jacobian:
		return "jacobian"
	case JacobianChudnovsky:
		return "jacobian-chudnovsky"
	case JacobianModified:
		return "jacobian-modified"
	}
	return fmt.Sprintf("CoordinateSystem(%d)", int(c))
}

// zCount returns the number of Z coordinates of the representation.
func (c CoordinateSystem) zCount() int {
	switch c {
	case Affine:
		return 0
	case JacobianModified:
		return 2
	case JacobianChudnovsky:
		return 3
	}
	return 1
}

func (c CoordinateSystem) isJacobian() bool {
	return c == Jacobian || c == JacobianChudnovsky || c == JacobianModified
}
