package curve

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrWeakRandomness is returned when the system's randomness source fails
// to produce a scalar. Callers surface this as the ceremony's fatal
// WeakRandomness error kind.
var ErrWeakRandomness = errors.New("curve: unable to sample randomness")

// ErrInvalidEncoding is returned by the Unmarshal family when the input
// does not decode to a valid group element.
var ErrInvalidEncoding = errors.New("curve: invalid group element encoding")

// Fr is a scalar in the ceremony's scalar field.
type Fr struct{ el fr.Element }

// RandomFr samples a uniformly random scalar, which may be zero.
func RandomFr() (Fr, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return Fr{}, ErrWeakRandomness
	}
	return Fr{e}, nil
}

// RandomNonzeroFr samples a uniformly random nonzero scalar, as required
// for every secret in the ceremony (§3: "all in Fr\{0}").
func RandomNonzeroFr() (Fr, error) {
	for i := 0; i < 256; i++ {
		x, err := RandomFr()
		if err != nil {
			return Fr{}, err
		}
		if !x.IsZero() {
			return x, nil
		}
	}
	return Fr{}, ErrWeakRandomness
}

// FrFromBytes interprets 32 big-endian bytes as a canonical scalar.
func FrFromBytes(b []byte) (Fr, error) {
	var e fr.Element
	if err := e.SetBytesCanonical(b); err != nil {
		return Fr{}, ErrInvalidEncoding
	}
	return Fr{e}, nil
}

// Bytes returns the 32-byte big-endian canonical encoding.
func (x Fr) Bytes() [32]byte { return x.el.Bytes() }

// IsZero reports whether x is the additive identity.
func (x Fr) IsZero() bool { return x.el.IsZero() }

// Mul returns x*y.
func (x Fr) Mul(y Fr) Fr {
	var z fr.Element
	z.Mul(&x.el, &y.el)
	return Fr{z}
}

// Add returns x+y.
func (x Fr) Add(y Fr) Fr {
	var z fr.Element
	z.Add(&x.el, &y.el)
	return Fr{z}
}

// Inverse returns x^-1; panics if x is zero, matching fr.Element's contract.
func (x Fr) Inverse() Fr {
	var z fr.Element
	z.Inverse(&x.el)
	return Fr{z}
}

func (x Fr) toBigInt() *big.Int {
	var b big.Int
	x.el.BigInt(&b)
	return &b
}

// G1 is an element of the first pairing group.
type G1 struct{ p bn254.G1Affine }

// G2 is an element of the second pairing group.
type G2 struct{ p bn254.G2Affine }

// GT is an element of the pairing target group.
type GT struct{ el bn254.GT }

// Generators returns the fixed generators g1, g2 of the curve.
func Generators() (G1, G2) {
	_, _, g1, g2 := bn254.Generators()
	return G1{g1}, G2{g2}
}

// RandomG1 samples a uniformly random point in G1 by scalar-multiplying
// the generator by a random scalar. Used only for property tests: the
// ceremony itself never needs random group elements outside of nonce
// derivation, which goes through HashToG1/HashToG2 in the secrets package.
func RandomG1() (G1, error) {
	s, err := RandomFr()
	if err != nil {
		return G1{}, err
	}
	g1, _ := Generators()
	return g1.ScalarMul(s), nil
}

// RandomG2 mirrors RandomG1 for G2.
func RandomG2() (G2, error) {
	s, err := RandomFr()
	if err != nil {
		return G2{}, err
	}
	_, g2 := Generators()
	return g2.ScalarMul(s), nil
}

// ScalarMul returns s*p.
func (p G1) ScalarMul(s Fr) G1 {
	var out bn254.G1Affine
	out.ScalarMultiplication(&p.p, s.toBigInt())
	return G1{out}
}

// Add returns p+q.
func (p G1) Add(q G1) G1 {
	var pj, qj bn254.G1Jac
	pj.FromAffine(&p.p)
	qj.FromAffine(&q.p)
	pj.AddAssign(&qj)
	var out bn254.G1Affine
	out.FromJacobian(&pj)
	return G1{out}
}

// Neg returns -p.
func (p G1) Neg() G1 {
	var pj bn254.G1Jac
	pj.FromAffine(&p.p)
	pj.Neg(&pj)
	var out bn254.G1Affine
	out.FromJacobian(&pj)
	return G1{out}
}

// IsIdentity reports whether p is the point at infinity.
func (p G1) IsIdentity() bool { return p.p.IsInfinity() }

// Equal is a constant-time-in-field-ops comparison; gnark-crypto's
// affine equality check is not a timing oracle on non-identity coordinates
// the way scalar comparisons can be, but we route all secrets through Fr
// comparisons instead of coordinate comparisons to avoid relying on that.
func (p G1) Equal(q G1) bool { return p.p.Equal(&q.p) }

// ScalarMul, Add, Neg, IsIdentity, Equal on G2 mirror G1 exactly.

func (p G2) ScalarMul(s Fr) G2 {
	var out bn254.G2Affine
	out.ScalarMultiplication(&p.p, s.toBigInt())
	return G2{out}
}

func (p G2) Add(q G2) G2 {
	var pj, qj bn254.G2Jac
	pj.FromAffine(&p.p)
	qj.FromAffine(&q.p)
	pj.AddAssign(&qj)
	var out bn254.G2Affine
	out.FromJacobian(&pj)
	return G2{out}
}

func (p G2) Neg() G2 {
	var pj bn254.G2Jac
	pj.FromAffine(&p.p)
	pj.Neg(&pj)
	var out bn254.G2Affine
	out.FromJacobian(&pj)
	return G2{out}
}

func (p G2) IsIdentity() bool { return p.p.IsInfinity() }

func (p G2) Equal(q G2) bool { return p.p.Equal(&q.p) }

// Pairing computes e(p, q).
func Pairing(p G1, q G2) (GT, error) {
	res, err := bn254.Pair([]bn254.G1Affine{p.p}, []bn254.G2Affine{q.p})
	if err != nil {
		return GT{}, err
	}
	return GT{res}, nil
}

// MultiPairing computes the product Π e(ps[i], qs[i]), which is the
// building block for every same-ratio check: a product of pairings equal
// to 1 proves the ratio equalities without computing each pairing and
// comparing separately.
func MultiPairing(ps []G1, qs []G2) (GT, error) {
	if len(ps) != len(qs) {
		return GT{}, errors.New("curve: mismatched pairing input lengths")
	}
	g1s := make([]bn254.G1Affine, len(ps))
	g2s := make([]bn254.G2Affine, len(qs))
	for i := range ps {
		g1s[i] = ps[i].p
		g2s[i] = qs[i].p
	}
	res, err := bn254.Pair(g1s, g2s)
	if err != nil {
		return GT{}, err
	}
	return GT{res}, nil
}

// IsOne reports whether z is the multiplicative identity of GT.
func (z GT) IsOne() bool { return z.el.IsOne() }

// Equal compares two GT elements.
func (z GT) Equal(o GT) bool { return z.el.Equal(&o.el) }

// G1EncodedSize/G2EncodedSize are the total byte lengths MarshalG1/
// MarshalG2 produce (1-byte tag plus compressed affine bytes), exported
// so the wire package can size fixed-length frame fields without
// duplicating the curve's encoding constants.
const (
	G1EncodedSize = 1 + g1CompressedSize
	G2EncodedSize = 1 + g2CompressedSize
)

// g1CompressedSize/g2CompressedSize are the wire payload sizes of a
// compressed BN254 point, ahead of our own 1-byte tag.
const (
	g1CompressedSize = fp.Bytes
	g2CompressedSize = 2 * fp.Bytes
)

// encodingTag classifies a point for the wire format's leading byte:
// 0x00 identity, 0x02/0x03 compressed non-identity keyed off the sign of Y.
func encodingTag(isIdentity bool, y *big.Int) byte {
	if isIdentity {
		return 0x00
	}
	half := new(big.Int).Rsh(fp.Modulus(), 1)
	if y.Cmp(half) > 0 {
		return 0x03
	}
	return 0x02
}

// MarshalG1 encodes p as a 1-byte tag followed by its compressed affine
// bytes, big-endian, matching §6 of the ceremony's wire protocol.
func MarshalG1(p G1) []byte {
	raw := p.p.Bytes()
	var y big.Int
	p.p.Y.BigInt(&y)
	out := make([]byte, 0, 1+len(raw))
	out = append(out, encodingTag(p.p.IsInfinity(), &y))
	return append(out, raw[:]...)
}

// UnmarshalG1 decodes the format produced by MarshalG1.
func UnmarshalG1(b []byte) (G1, error) {
	if len(b) != 1+g1CompressedSize {
		return G1{}, ErrInvalidEncoding
	}
	var out bn254.G1Affine
	if _, err := out.SetBytes(b[1:]); err != nil {
		return G1{}, ErrInvalidEncoding
	}
	return G1{out}, nil
}

// MarshalG2 mirrors MarshalG1 for the second group.
func MarshalG2(p G2) []byte {
	raw := p.p.Bytes()
	var y big.Int
	p.p.Y.A0.BigInt(&y)
	out := make([]byte, 0, 1+len(raw))
	out = append(out, encodingTag(p.p.IsInfinity(), &y))
	return append(out, raw[:]...)
}

// UnmarshalG2 decodes the format produced by MarshalG2.
func UnmarshalG2(b []byte) (G2, error) {
	if len(b) != 1+g2CompressedSize {
		return G2{}, ErrInvalidEncoding
	}
	var out bn254.G2Affine
	if _, err := out.SetBytes(b[1:]); err != nil {
		return G2{}, ErrInvalidEncoding
	}
	return G2{out}, nil
}

// hashToScalar reduces a wide digest into Fr, used by HashToG1/HashToG2.
func hashToScalar(digest []byte) Fr {
	// Interpret as a big-endian integer and reduce mod r via SetBytes,
	// which gnark-crypto defines as a non-canonical reduction — acceptable
	// here since this only feeds domain-separated nonce derivation, never
	// a secret whose distribution must be perfectly uniform over Fr.
	var e fr.Element
	e.SetBytes(digest)
	return Fr{e}
}

// HashToG1 maps a 32-byte digest to G1 by treating it as a scalar and
// multiplying the generator, as specified by §4.1 ("hash to 256 bits,
// interpret as scalar, multiply g1").
func HashToG1(digest []byte) G1 {
	g1, _ := Generators()
	return g1.ScalarMul(hashToScalar(digest))
}

// HashToG2 mirrors HashToG1 for the second group.
func HashToG2(digest []byte) G2 {
	_, g2 := Generators()
	return g2.ScalarMul(hashToScalar(digest))
}

// FrFromUint64 is a small helper for building test fixtures and for
// encoding loop indices as field elements during QAP evaluation.
func FrFromUint64(v uint64) Fr {
	var e fr.Element
	e.SetUint64(v)
	return Fr{e}
}

// writeUint32 and readUint32 encode and decode a big-endian uint32. They
// are unexported and nothing in this package calls them; the wire and
// secrets packages do their own encoding.
func writeUint32(buf []byte, v uint32) {
	binary.BigEndian.PutUint32(buf, v)
}

func readUint32(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf)
}

var _ = rand.Reader // keep crypto/rand imported for godoc discoverability of RandomFr's entropy source
