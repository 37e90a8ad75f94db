package ec

// Point arithmetic for each supported coordinate system. The formulas follow
// Cohen, Miyaji and Ono, "Efficient elliptic curve exponentiation using mixed
// coordinates" and Ciet, Joye, Lauter and Montgomery, "Trading inversions for
// multiplications in elliptic curve cryptography".

// Negate returns -p.
func (p *Point) Negate() *Point {
	if p.IsInfinity() {
		return p
	}
	return &Point{curve: p.curve, x: p.x, y: p.y.Negate(), zs: p.zs}
}

// Subtract returns p - q.
func (p *Point) Subtract(q *Point) *Point {
	if q.IsInfinity() {
		p.checkCurve(q)
		return p
	}
	return p.Add(q.Negate())
}

// Add returns p + q. Both points must belong to the same curve object.
func (p *Point) Add(q *Point) *Point {
	p.checkCurve(q)
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	if p == q {
		return p.Twice()
	}

	c := p.curve
	x1, y1 := p.x, p.y
	x2, y2 := q.x, q.y

	switch c.config.Coordinates {
	case Affine:
		dx, dy := x2.Subtract(x1), y2.Subtract(y1)
		if dx.IsZero() {
			if dy.IsZero() {
				return p.Twice()
			}
			return c.infinity
		}
		gamma := dy.divide(dx)
		x3 := gamma.Square().Subtract(x1).Subtract(x2)
		y3 := gamma.Multiply(x1.Subtract(x3)).Subtract(y1)
		return &Point{curve: c, x: x3, y: y3}

	case Homogeneous:
		z1, z2 := p.zs[0], q.zs[0]
		z1IsOne, z2IsOne := z1.IsOne(), z2.IsOne()

		u1, u2, v1, v2 := y2, y1, x2, x1
		if !z1IsOne {
			u1 = y2.Multiply(z1)
			v1 = x2.Multiply(z1)
		}
		if !z2IsOne {
			u2 = y1.Multiply(z2)
			v2 = x1.Multiply(z2)
		}
		u, v := u1.Subtract(u2), v1.Subtract(v2)

		if v.IsZero() {
			if u.IsZero() {
				return p.Twice()
			}
			return c.infinity
		}

		var w *FieldElement
		switch {
		case z1IsOne:
			w = z2
		case z2IsOne:
			w = z1
		default:
			w = z1.Multiply(z2)
		}
		vSquared := v.Square()
		vCubed := vSquared.Multiply(v)
		vSquaredV2 := vSquared.Multiply(v2)
		a := u.Square().Multiply(w).Subtract(vCubed).Subtract(vSquaredV2.two())

		x3 := v.Multiply(a)
		y3 := vSquaredV2.Subtract(a).multiplyMinusProduct(u, u2, vCubed)
		z3 := vCubed.Multiply(w)
		return &Point{curve: c, x: x3, y: y3, zs: []*FieldElement{z3}}

	case Jacobian, JacobianModified:
		return p.addJacobian(q)
	}
	panic(ErrUnsupportedCoordinates)
}

func (p *Point) addJacobian(q *Point) *Point {
	c := p.curve
	x1, y1, z1 := p.x, p.y, p.zs[0]
	x2, y2, z2 := q.x, q.y, q.zs[0]
	z1IsOne := z1.IsOne()

	var x3, y3, z3, z3Squared *FieldElement

	if !z1IsOne && z1.Equal(z2) {
		// co-Z addition
		dx, dy := x1.Subtract(x2), y1.Subtract(y2)
		if dx.IsZero() {
			if dy.IsZero() {
				return p.Twice()
			}
			return c.infinity
		}

		cc := dx.Square()
		w1, w2 := x1.Multiply(cc), x2.Multiply(cc)
		a1 := w1.Subtract(w2).Multiply(y1)

		x3 = dy.Square().Subtract(w1).Subtract(w2)
		y3 = w1.Subtract(x3).Multiply(dy).Subtract(a1)
		z3 = dx.Multiply(z1)
	} else {
		u2, s2 := x2, y2
		if !z1IsOne {
			z1Squared := z1.Square()
			u2 = z1Squared.Multiply(x2)
			s2 = z1Squared.Multiply(z1).Multiply(y2)
		}

		z2IsOne := z2.IsOne()
		u1, s1 := x1, y1
		if !z2IsOne {
			z2Squared := z2.Square()
			u1 = z2Squared.Multiply(x1)
			s1 = z2Squared.Multiply(z2).Multiply(y1)
		}

		h := u1.Subtract(u2)
		r := s1.Subtract(s2)
		if h.IsZero() {
			if r.IsZero() {
				return p.Twice()
			}
			return c.infinity
		}

		hSquared := h.Square()
		g := hSquared.Multiply(h)
		v := hSquared.Multiply(u1)

		x3 = r.Square().Add(g).Subtract(v.two())
		y3 = v.Subtract(x3).multiplyMinusProduct(r, g, s1)

		z3 = h
		if !z1IsOne {
			z3 = z3.Multiply(z1)
		}
		if !z2IsOne {
			z3 = z3.Multiply(z2)
		}
		if z1IsOne && z2IsOne {
			z3Squared = hSquared
		}
	}

	zs := []*FieldElement{z3}
	if c.config.Coordinates == JacobianModified {
		zs = append(zs, c.jacobianModifiedW(z3, z3Squared))
	}
	return &Point{curve: c, x: x3, y: y3, zs: zs}
}

// jacobianModifiedW returns W = aZ⁴; zSquared may be nil.
func (c *Curve) jacobianModifiedW(z, zSquared *FieldElement) *FieldElement {
	if c.a.IsZero() || z.IsOne() {
		return c.a
	}
	if zSquared == nil {
		zSquared = z.Square()
	}
	w := zSquared.Square()
	aNeg := c.a.Negate()
	if aNeg.BitLen() < c.a.BitLen() {
		return w.Multiply(aNeg).Negate()
	}
	return w.Multiply(c.a)
}

// w returns the cached W coordinate of a modified Jacobian point.
func (p *Point) w() *FieldElement {
	if len(p.zs) > 1 && p.zs[1] != nil {
		return p.zs[1]
	}
	return p.curve.jacobianModifiedW(p.zs[0], nil)
}

// Twice returns 2p.
func (p *Point) Twice() *Point {
	if p.IsInfinity() {
		return p
	}
	c := p.curve
	y1 := p.y
	if y1.IsZero() {
		return c.infinity
	}
	x1 := p.x

	switch c.config.Coordinates {
	case Affine:
		x1Squared := x1.Square()
		gamma := x1Squared.three().Add(c.a).divide(y1.two())
		x3 := gamma.Square().Subtract(x1.two())
		y3 := gamma.Multiply(x1.Subtract(x3)).Subtract(y1)
		return &Point{curve: c, x: x3, y: y3}

	case Homogeneous:
		z1 := p.zs[0]
		z1IsOne := z1.IsOne()

		w := c.a
		if !w.IsZero() && !z1IsOne {
			w = w.Multiply(z1.Square())
		}
		w = w.Add(x1.Square().three())

		s, t := y1, y1.Square()
		if !z1IsOne {
			s = y1.Multiply(z1)
			t = s.Multiply(y1)
		}
		b := x1.Multiply(t)
		fourB := b.four()
		h := w.Square().Subtract(fourB.two())

		twoS := s.two()
		x3 := h.Multiply(twoS)
		twoT := t.two()
		y3 := fourB.Subtract(h).Multiply(w).Subtract(twoT.Square().two())
		var fourSSquared *FieldElement
		if z1IsOne {
			fourSSquared = twoT.two()
		} else {
			fourSSquared = twoS.Square()
		}
		z3 := fourSSquared.two().Multiply(s)
		return &Point{curve: c, x: x3, y: y3, zs: []*FieldElement{z3}}

	case Jacobian:
		z1 := p.zs[0]
		z1IsOne := z1.IsOne()

		y1Squared := y1.Square()
		t := y1Squared.Square()

		a := c.a
		aNeg := a.Negate()

		var m, s *FieldElement
		if aNeg.BigInt().Cmp(bigThree) == 0 {
			z1Squared := z1
			if !z1IsOne {
				z1Squared = z1.Square()
			}
			m = x1.Add(z1Squared).Multiply(x1.Subtract(z1Squared)).three()
			s = y1Squared.Multiply(x1).four()
		} else {
			m = x1.Square().three()
			if z1IsOne {
				m = m.Add(a)
			} else if !a.IsZero() {
				z1Pow4 := z1.Square().Square()
				if aNeg.BitLen() < a.BitLen() {
					m = m.Subtract(z1Pow4.Multiply(aNeg))
				} else {
					m = m.Add(z1Pow4.Multiply(a))
				}
			}
			s = x1.Multiply(y1Squared).four()
		}

		x3 := m.Square().Subtract(s.two())
		y3 := s.Subtract(x3).Multiply(m).Subtract(t.eight())
		z3 := y1.two()
		if !z1IsOne {
			z3 = z3.Multiply(z1)
		}
		return &Point{curve: c, x: x3, y: y3, zs: []*FieldElement{z3}}

	case JacobianModified:
		return p.twiceJacobianModified(true)
	}
	panic(ErrUnsupportedCoordinates)
}

func (p *Point) twiceJacobianModified(calculateW bool) *Point {
	x1, y1, z1, w1 := p.x, p.y, p.zs[0], p.w()

	m := x1.Square().three().Add(w1)
	twoY1 := y1.two()
	twoY1Squared := twoY1.Multiply(y1)
	s := x1.Multiply(twoY1Squared).two()
	x3 := m.Square().Subtract(s.two())
	fourT := twoY1Squared.Square()
	eightT := fourT.two()
	y3 := m.Multiply(s.Subtract(x3)).Subtract(eightT)

	var w3 *FieldElement
	if calculateW {
		w3 = eightT.Multiply(w1).two()
	}
	z3 := twoY1
	if !z1.IsOne() {
		z3 = twoY1.Multiply(z1)
	}
	return &Point{curve: p.curve, x: x3, y: y3, zs: []*FieldElement{z3, w3}}
}

// TwicePlus returns 2p + q, which is cheaper than Twice followed by Add in
// affine coordinates.
func (p *Point) TwicePlus(q *Point) *Point {
	p.checkCurve(q)
	if p == q {
		return p.ThreeTimes()
	}
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p.Twice()
	}

	c := p.curve
	y1 := p.y
	if y1.IsZero() {
		return q
	}

	switch c.config.Coordinates {
	case Affine:
		x1 := p.x
		x2, y2 := q.x, q.y

		dx, dy := x2.Subtract(x1), y2.Subtract(y1)
		if dx.IsZero() {
			if dy.IsZero() {
				return p.ThreeTimes()
			}
			// q = -p
			return p
		}

		x, y := dx.Square(), dy.Square()
		d := x.Multiply(x1.two().Add(x2)).Subtract(y)
		if d.IsZero() {
			return c.infinity
		}

		i := d.Multiply(dx).inverse()
		l1 := d.Multiply(i).Multiply(dy)
		l2 := y1.two().Multiply(x).Multiply(dx).Multiply(i).Subtract(l1)
		x4 := l2.Subtract(l1).Multiply(l1.Add(l2)).Add(x2)
		y4 := x1.Subtract(x4).Multiply(l2).Subtract(y1)
		return &Point{curve: c, x: x4, y: y4}

	case JacobianModified:
		return p.twiceJacobianModified(false).Add(q)
	}
	return p.Twice().Add(q)
}

// ThreeTimes returns 3p.
func (p *Point) ThreeTimes() *Point {
	if p.IsInfinity() {
		return p
	}
	c := p.curve
	y1 := p.y
	if y1.IsZero() {
		return p
	}

	switch c.config.Coordinates {
	case Affine:
		x1 := p.x

		twoY1 := y1.two()
		x := twoY1.Square()
		z := x1.Square().three().Add(c.a)
		y := z.Square()

		d := x1.three().Multiply(x).Subtract(y)
		if d.IsZero() {
			return c.infinity
		}

		i := d.Multiply(twoY1).inverse()
		l1 := d.Multiply(i).Multiply(z)
		l2 := x.Square().Multiply(i).Subtract(l1)
		x4 := l2.Subtract(l1).Multiply(l1.Add(l2)).Add(x1)
		y4 := x1.Subtract(x4).Multiply(l2).Subtract(y1)
		return &Point{curve: c, x: x4, y: y4}

	case JacobianModified:
		return p.twiceJacobianModified(false).Add(p)
	}
	return p.Twice().Add(p)
}

// TimesPow2 returns 2^e·p using repeated doubling in modified Jacobian
// coordinates, whatever the curve's coordinate system.
func (p *Point) TimesPow2(e int) *Point {
	if e < 0 {
		panic("exponent cannot be negative")
	}
	if e == 0 || p.IsInfinity() {
		return p
	}
	if e == 1 {
		return p.Twice()
	}

	c := p.curve
	y1 := p.y
	if y1.IsZero() {
		return c.infinity
	}

	coord := c.config.Coordinates
	w1 := c.a
	x1 := p.x
	z1 := c.field.one
	if len(p.zs) > 0 {
		z1 = p.zs[0]
	}

	if !z1.IsOne() {
		switch coord {
		case Homogeneous:
			z1Squared := z1.Square()
			x1 = x1.Multiply(z1)
			y1 = y1.Multiply(z1Squared)
			w1 = c.jacobianModifiedW(z1, z1Squared)
		case Jacobian:
			w1 = c.jacobianModifiedW(z1, nil)
		case JacobianModified:
			w1 = p.w()
		}
	}

	for i := 0; i < e; i++ {
		if y1.IsZero() {
			return c.infinity
		}

		m := x1.Square().three()
		twoY1 := y1.two()
		twoY1Squared := twoY1.Multiply(y1)
		s := x1.Multiply(twoY1Squared).two()
		eightT := twoY1Squared.Square().two()

		if !w1.IsZero() {
			m = m.Add(w1)
			w1 = eightT.Multiply(w1).two()
		}

		x1 = m.Square().Subtract(s.two())
		y1 = m.Multiply(s.Subtract(x1)).Subtract(eightT)
		if z1.IsOne() {
			z1 = twoY1
		} else {
			z1 = twoY1.Multiply(z1)
		}
	}

	switch coord {
	case Affine:
		zInv := z1.inverse()
		zInv2 := zInv.Square()
		zInv3 := zInv2.Multiply(zInv)
		return &Point{curve: c, x: x1.Multiply(zInv2), y: y1.Multiply(zInv3)}
	case Homogeneous:
		x1 = x1.Multiply(z1)
		z1 = z1.Multiply(z1.Square())
		return &Point{curve: c, x: x1, y: y1, zs: []*FieldElement{z1}}
	case Jacobian:
		return &Point{curve: c, x: x1, y: y1, zs: []*FieldElement{z1}}
	case JacobianModified:
		return &Point{curve: c, x: x1, y: y1, zs: []*FieldElement{z1, w1}}
	}
	panic(ErrUnsupportedCoordinates)
}
