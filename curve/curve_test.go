package curve

import "testing"

// Mirrors original_source/snark/src/lib.rs's pairing_test,
// pairing_ordering_irrelevant and test_scalar_mul property checks.

func TestPairingBilinear(t *testing.T) {
	g1, g2 := Generators()
	s, err := RandomNonzeroFr()
	if err != nil {
		t.Fatalf("RandomNonzeroFr: %v", err)
	}

	lhs, err := Pairing(g1.ScalarMul(s), g2)
	if err != nil {
		t.Fatalf("Pairing: %v", err)
	}
	rhs, err := Pairing(g1, g2.ScalarMul(s))
	if err != nil {
		t.Fatalf("Pairing: %v", err)
	}
	if !lhs.Equal(rhs) {
		t.Fatalf("e(s*g1, g2) != e(g1, s*g2)")
	}

	base, err := Pairing(g1, g2)
	if err != nil {
		t.Fatalf("Pairing: %v", err)
	}
	if base.IsOne() {
		t.Fatalf("e(g1, g2) must not be the identity")
	}
}

// TestPairingSymmetric mirrors original_source/snark/src/lib.rs's
// pairing_ordering_irrelevant: swapping which generator carries the
// scalar before pairing must not change the result, i.e.
// e(s*g1, t*g2) == e(t*g1, s*g2).
func TestPairingSymmetric(t *testing.T) {
	g1, g2 := Generators()
	s, err := RandomNonzeroFr()
	if err != nil {
		t.Fatalf("RandomNonzeroFr: %v", err)
	}
	u, err := RandomNonzeroFr()
	if err != nil {
		t.Fatalf("RandomNonzeroFr: %v", err)
	}

	lhs, err := Pairing(g1.ScalarMul(s), g2.ScalarMul(u))
	if err != nil {
		t.Fatalf("Pairing: %v", err)
	}
	rhs, err := Pairing(g1.ScalarMul(u), g2.ScalarMul(s))
	if err != nil {
		t.Fatalf("Pairing: %v", err)
	}
	if !lhs.Equal(rhs) {
		t.Fatalf("e(s*g1, t*g2) != e(t*g1, s*g2)")
	}
}

func TestG1Associative(t *testing.T) {
	a, err := RandomG1()
	if err != nil {
		t.Fatalf("RandomG1: %v", err)
	}
	b, err := RandomG1()
	if err != nil {
		t.Fatalf("RandomG1: %v", err)
	}
	c, err := RandomG1()
	if err != nil {
		t.Fatalf("RandomG1: %v", err)
	}

	lhs := a.Add(b).Add(c)
	rhs := a.Add(b.Add(c))
	if !lhs.Equal(rhs) {
		t.Fatalf("(a+b)+c != a+(b+c) in G1")
	}
}

func TestG2Associative(t *testing.T) {
	a, err := RandomG2()
	if err != nil {
		t.Fatalf("RandomG2: %v", err)
	}
	b, err := RandomG2()
	if err != nil {
		t.Fatalf("RandomG2: %v", err)
	}
	c, err := RandomG2()
	if err != nil {
		t.Fatalf("RandomG2: %v", err)
	}

	lhs := a.Add(b).Add(c)
	rhs := a.Add(b.Add(c))
	if !lhs.Equal(rhs) {
		t.Fatalf("(a+b)+c != a+(b+c) in G2")
	}
}

func TestG1ScalarMulMatchesRepeatedAdd(t *testing.T) {
	g1, _ := Generators()
	acc := G1{}
	var zero G1
	acc = zero
	for i := 0; i < 16; i++ {
		acc = acc.Add(g1)
	}
	viaMul := g1.ScalarMul(FrFromUint64(16))
	if !acc.Equal(viaMul) {
		t.Fatalf("16 additions of g1 does not equal 16*g1")
	}
}

func TestG1AdditiveInverse(t *testing.T) {
	p, err := RandomG1()
	if err != nil {
		t.Fatalf("RandomG1: %v", err)
	}
	sum := p.Add(p.Neg())
	if !sum.IsIdentity() {
		t.Fatalf("p + (-p) must be the identity")
	}
}

func TestG1MarshalRoundTrip(t *testing.T) {
	p, err := RandomG1()
	if err != nil {
		t.Fatalf("RandomG1: %v", err)
	}
	enc := MarshalG1(p)
	got, err := UnmarshalG1(enc)
	if err != nil {
		t.Fatalf("UnmarshalG1: %v", err)
	}
	if !got.Equal(p) {
		t.Fatalf("round trip changed the point")
	}
}

func TestG1MarshalIdentityTag(t *testing.T) {
	var identity G1
	enc := MarshalG1(identity)
	if enc[0] != 0x00 {
		t.Fatalf("identity must encode with tag 0x00, got %#x", enc[0])
	}
}

func TestFrInverse(t *testing.T) {
	s, err := RandomNonzeroFr()
	if err != nil {
		t.Fatalf("RandomNonzeroFr: %v", err)
	}
	one := s.Mul(s.Inverse())
	if one.IsZero() {
		t.Fatalf("s * s^-1 must not be zero")
	}
}
