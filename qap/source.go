package qap

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/asv/mpc/curve"
)

// ErrMalformedSource is returned by FromFile when the constraint-system
// dump does not parse, surfaced by callers as a ProtocolError-class
// failure since it indicates a corrupt or incompatible input file rather
// than a cryptographic one.
var ErrMalformedSource = errors.New("qap: malformed constraint system source")

// CS is the QAP-reduced shape of a fixed R1CS: its degree (domain size),
// variable and input counts, the domain generator, and the per-variable
// u/v/w polynomials in monomial basis.
type CS struct {
	// D is the QAP degree: the size of the evaluation domain the
	// constraints were interpolated over.
	D int
	// NumVars is m, the total number of witness variables.
	NumVars int
	// NumInputs is ℓ, the number of public input variables; these are
	// split into the verifying key's input window at finalization.
	NumInputs int
	// Omega is the domain generator ω.
	Omega curve.Fr

	// U, V, W hold, for each of the NumVars variables, that variable's
	// u_j/v_j/w_j polynomial in monomial basis, coefficient index i
	// corresponding to X^i. Every slice has length D.
	U [][]curve.Fr
	V [][]curve.Fr
	W [][]curve.Fr
}

// Source produces a CS. Implementations: Synthetic (development/test
// fixture) and FromFile (a real circuit compiler's output). Resolves the
// ceremony's USE_DUMMY_CS open question by making the choice an explicit,
// named input rather than a compile-time flag.
type Source interface {
	Load() (*CS, error)
}

// Synthetic fabricates a CS of a given shape with deterministic,
// arbitrary polynomials — sufficient to exercise the full ceremony
// protocol without depending on a real circuit compiler.
type Synthetic struct {
	D         int
	NumVars   int
	NumInputs int
}

// Load implements Source by deriving ω from D and filling U/V/W with a
// deterministic, non-degenerate sequence of coefficients (not a real
// circuit's reduction, but exercising every position the ceremony reads).
func (s Synthetic) Load() (*CS, error) {
	if s.D <= 0 || s.NumVars <= 0 || s.NumInputs < 0 || s.NumInputs > s.NumVars {
		return nil, ErrMalformedSource
	}

	domain := fft.NewDomain(uint64(s.D))
	omega := curve.Fr{}
	{
		// fft.Domain keeps its generator as an fr.Element directly; copy
		// it into our façade type via its canonical bytes so curve stays
		// the only place that imports fr.Element directly. fft is
		// imported here only for NewDomain.
		b := domain.Generator.Bytes()
		var err error
		omega, err = curve.FrFromBytes(b[:])
		if err != nil {
			return nil, ErrMalformedSource
		}
	}

	cs := &CS{
		D:         s.D,
		NumVars:   s.NumVars,
		NumInputs: s.NumInputs,
		Omega:     omega,
		U:         make([][]curve.Fr, s.NumVars),
		V:         make([][]curve.Fr, s.NumVars),
		W:         make([][]curve.Fr, s.NumVars),
	}
	for j := 0; j < s.NumVars; j++ {
		cs.U[j] = deterministicPoly(s.D, j, 1)
		cs.V[j] = deterministicPoly(s.D, j, 2)
		cs.W[j] = deterministicPoly(s.D, j, 3)
	}
	return cs, nil
}

// deterministicPoly generates a fixed, arbitrary-but-reproducible
// coefficient vector of length d for variable index j and a small salt
// distinguishing u/v/w, so that Synthetic's output is reproducible across
// runs (useful for the deterministic-RNG two-player test scenario).
func deterministicPoly(d, j, salt int) []curve.Fr {
	out := make([]curve.Fr, d)
	for i := 0; i < d; i++ {
		out[i] = curve.FrFromUint64(uint64((j+1)*31 + (i+1)*17 + salt))
	}
	return out
}

// FromFile loads a CS from the length-prefixed binary dump a circuit
// compiler produces: D, NumVars, NumInputs as big-endian uint32, ω as 32
// bytes, then NumVars*3 coefficient vectors each D scalars long: the
// NumVars U vectors first, then all V vectors, then all W vectors.
type FromFile struct {
	Reader io.Reader
}

// Load implements Source.
func (f FromFile) Load() (*CS, error) {
	var header [12]byte
	if _, err := io.ReadFull(f.Reader, header[:]); err != nil {
		return nil, ErrMalformedSource
	}
	d := int(binary.BigEndian.Uint32(header[0:4]))
	numVars := int(binary.BigEndian.Uint32(header[4:8]))
	numInputs := int(binary.BigEndian.Uint32(header[8:12]))
	if d <= 0 || numVars <= 0 || numInputs < 0 || numInputs > numVars {
		return nil, ErrMalformedSource
	}

	var omegaBytes [32]byte
	if _, err := io.ReadFull(f.Reader, omegaBytes[:]); err != nil {
		return nil, ErrMalformedSource
	}
	omega, err := curve.FrFromBytes(omegaBytes[:])
	if err != nil {
		return nil, ErrMalformedSource
	}

	cs := &CS{D: d, NumVars: numVars, NumInputs: numInputs, Omega: omega}
	cs.U, err = f.readPolys(numVars, d)
	if err != nil {
		return nil, err
	}
	cs.V, err = f.readPolys(numVars, d)
	if err != nil {
		return nil, err
	}
	cs.W, err = f.readPolys(numVars, d)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (f FromFile) readPolys(numVars, d int) ([][]curve.Fr, error) {
	out := make([][]curve.Fr, numVars)
	buf := make([]byte, 32)
	for j := 0; j < numVars; j++ {
		poly := make([]curve.Fr, d)
		for i := 0; i < d; i++ {
			if _, err := io.ReadFull(f.Reader, buf); err != nil {
				return nil, ErrMalformedSource
			}
			el, err := curve.FrFromBytes(buf)
			if err != nil {
				return nil, ErrMalformedSource
			}
			poly[i] = el
		}
		out[j] = poly
	}
	return out, nil
}
