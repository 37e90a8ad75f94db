package common

import (
	"math/rand"
	"testing"

	"github.com/privacybydesign/uprove/big"
)

var rnd *rand.Rand = rand.New(rand.NewSource(37))

var (
	p256      = big.MustHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")
	secp256k1 = big.MustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	p384      = big.MustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff")
	p521      = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 521), big.NewInt(1))
)

func testReducer(t *testing.T, p *big.Int) {
	var a, r1, r2, l, sq big.Int
	m := NewReducer(p)
	sq.Mul(p, p)
	for i := 1; i < 20; i++ {
		l.Mul(&sq, big.NewInt(int64(i)))
		a.Rand(rnd, &l)
		if i%2 == 0 {
			a.Neg(&a)
		}
		r1.Mod(&a, p)
		m.Mod(&r2, &a)
		if r1.Cmp(&r2) != 0 {
			t.Fatalf("%v mod %v = %v != %v", &a, p, &r1, &r2)
		}
	}
	for _, x := range []*big.Int{big.NewInt(0), big.NewInt(1), p, new(big.Int).Sub(p, big.NewInt(1)), new(big.Int).Neg(p)} {
		r1.Mod(x, p)
		m.Mod(&r2, x)
		if r1.Cmp(&r2) != 0 {
			t.Fatalf("%v mod %v = %v != %v", x, p, &r1, &r2)
		}
	}
}

func TestResidue(t *testing.T) {
	if r := Residue(secp256k1); r == nil || r.Cmp(big.NewInt(0x1000003d1)) != 0 {
		t.Fatalf("secp256k1 residue: %v", r)
	}
	if r := Residue(p521); r == nil || r.Int64() != 1 {
		t.Fatalf("P-521 residue: %v", r)
	}
	if r := Residue(p384); r == nil || r.Sign() <= 0 {
		t.Fatalf("P-384 residue: %v", r)
	}
	if r := Residue(p256); r == nil || r.Sign() >= 0 {
		t.Fatalf("P-256 residue must be negative: %v", r)
	}
	if r := Residue(big.NewInt(1000003)); r != nil {
		t.Fatalf("small modulus has residue %v", r)
	}
	// 127 bits, top word not all ones and not byte aligned
	if r := Residue(big.MustHex("5fffffffffffffffffffffffffffffff")); r != nil {
		t.Fatalf("unaligned modulus has residue %v", r)
	}
}

func TestReducerPseudoMersenne(t *testing.T) {
	testReducer(t, secp256k1)
	testReducer(t, p384)
	testReducer(t, p521)
	testReducer(t, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19)))
}

func TestReducerBarrett(t *testing.T) {
	testReducer(t, p256)
	var p, l big.Int
	for _, bits := range []uint{96, 128, 200, 256, 1024} {
		l.Lsh(big.NewInt(1), bits)
		for i := 0; i < 5; i++ {
			p.Rand(rnd, &l)
			p.SetBit(&p, int(bits-1), 1)
			p.SetBit(&p, 0, 1)
			if Residue(&p).Sign() >= 0 {
				continue // top word happened to be all ones
			}
			testReducer(t, &p)
		}
	}
}

func TestReducerGeneric(t *testing.T) {
	testReducer(t, big.NewInt(1000003))
	testReducer(t, big.MustHex("5fffffffffffffffffffffffffffffff"))
}

func TestReducerLargeInput(t *testing.T) {
	var a, r1, r2 big.Int
	m := NewReducer(p256)
	a.Lsh(p256, 700)
	a.Add(&a, big.NewInt(12345))
	r1.Mod(&a, p256)
	m.Mod(&r2, &a)
	if r1.Cmp(&r2) != 0 {
		t.Fatalf("large input: %v != %v", &r1, &r2)
	}
}

func benchmarkReducer(b *testing.B, p *big.Int) {
	var a, r, sq big.Int
	m := NewReducer(p)
	sq.Mul(p, p)
	a.Rand(rnd, &sq)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Mod(&r, &a)
	}
}

func BenchmarkReducerP256(b *testing.B)      { benchmarkReducer(b, p256) }
func BenchmarkReducerSecp256k1(b *testing.B) { benchmarkReducer(b, secp256k1) }

func BenchmarkMod(b *testing.B) {
	var a, r, sq big.Int
	sq.Mul(p256, p256)
	a.Rand(rnd, &sq)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Mod(&a, p256)
	}
}
