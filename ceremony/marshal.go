package ceremony

import "github.com/asv/mpc/curve"

// MarshalBinary encodes Stage1 in the fixed field order used by the
// wire protocol (spec §6).
func (s *Stage1) MarshalBinary() ([]byte, error) {
	var out []byte
	for _, p := range s.G1Pows {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.G2Pows {
		out = append(out, curve.MarshalG2(p)...)
	}
	for _, p := range s.AlphaA {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.AlphaB {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.AlphaC {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.BetaG1 {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.BetaG2 {
		out = append(out, curve.MarshalG2(p)...)
	}
	out = append(out, curve.MarshalG2(s.GammaG2)...)
	out = append(out, curve.MarshalG2(s.AlphaAG2)...)
	out = append(out, curve.MarshalG1(s.AlphaBG1)...)
	out = append(out, curve.MarshalG2(s.AlphaCG2)...)
	out = append(out, curve.MarshalG1(s.BetaGammaG1)...)
	out = append(out, curve.MarshalG2(s.BetaGammaG2)...)
	return out, nil
}

// UnmarshalStage1 decodes the format produced by Stage1.MarshalBinary.
// d is the degree the sender and receiver already agree on out of band
// (it determines every vector's length, so it isn't repeated on the
// wire).
func UnmarshalStage1(b []byte, d int) (*Stage1, error) {
	s := &Stage1{
		G1Pows: make([]curve.G1, 2*d+1),
		G2Pows: make([]curve.G2, d+1),
		AlphaA: make([]curve.G1, d+1),
		AlphaB: make([]curve.G1, d+1),
		AlphaC: make([]curve.G1, d+1),
		BetaG1: make([]curve.G1, d+1),
		BetaG2: make([]curve.G2, d+1),
	}
	r := &byteReader{b: b}
	for i := range s.G1Pows {
		if s.G1Pows[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.G2Pows {
		if s.G2Pows[i], r.err = r.readG2(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.AlphaA {
		if s.AlphaA[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.AlphaB {
		if s.AlphaB[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.AlphaC {
		if s.AlphaC[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.BetaG1 {
		if s.BetaG1[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.BetaG2 {
		if s.BetaG2[i], r.err = r.readG2(); r.err != nil {
			return nil, r.err
		}
	}
	if s.GammaG2, r.err = r.readG2(); r.err != nil {
		return nil, r.err
	}
	if s.AlphaAG2, r.err = r.readG2(); r.err != nil {
		return nil, r.err
	}
	if s.AlphaBG1, r.err = r.readG1(); r.err != nil {
		return nil, r.err
	}
	if s.AlphaCG2, r.err = r.readG2(); r.err != nil {
		return nil, r.err
	}
	if s.BetaGammaG1, r.err = r.readG1(); r.err != nil {
		return nil, r.err
	}
	if s.BetaGammaG2, r.err = r.readG2(); r.err != nil {
		return nil, r.err
	}
	return s, nil
}

// MarshalBinary encodes Stage2 in the fixed field order used by the
// wire protocol.
func (s *Stage2) MarshalBinary() ([]byte, error) {
	var out []byte
	for _, p := range s.A {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.APrime {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.B {
		out = append(out, curve.MarshalG2(p)...)
	}
	for _, p := range s.BPrime {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.C {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.CPrime {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range s.K {
		out = append(out, curve.MarshalG1(p)...)
	}
	return out, nil
}

// UnmarshalStage2 decodes the format produced by Stage2.MarshalBinary.
// numVars is agreed out of band (it's the QAP's variable count).
func UnmarshalStage2(b []byte, numVars int) (*Stage2, error) {
	s := &Stage2{
		A:      make([]curve.G1, numVars),
		APrime: make([]curve.G1, numVars),
		B:      make([]curve.G2, numVars),
		BPrime: make([]curve.G1, numVars),
		C:      make([]curve.G1, numVars),
		CPrime: make([]curve.G1, numVars),
		K:      make([]curve.G1, numVars),
	}
	r := &byteReader{b: b}
	for i := range s.A {
		if s.A[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.APrime {
		if s.APrime[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.B {
		if s.B[i], r.err = r.readG2(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.BPrime {
		if s.BPrime[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.C {
		if s.C[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.CPrime {
		if s.CPrime[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	for i := range s.K {
		if s.K[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	return s, nil
}

// MarshalBinary encodes Stage3 in the fixed field order used by the
// wire protocol.
func (s *Stage3) MarshalBinary() ([]byte, error) {
	var out []byte
	for _, p := range s.H {
		out = append(out, curve.MarshalG1(p)...)
	}
	return out, nil
}

// UnmarshalStage3 decodes the format produced by Stage3.MarshalBinary.
// d is the QAP degree; H has d+1 entries.
func UnmarshalStage3(b []byte, d int) (*Stage3, error) {
	s := &Stage3{H: make([]curve.G1, d+1)}
	r := &byteReader{b: b}
	for i := range s.H {
		if s.H[i], r.err = r.readG1(); r.err != nil {
			return nil, r.err
		}
	}
	return s, nil
}

// byteReader sequentially decodes fixed-size group elements out of a
// flat byte slice, short-circuiting once any read fails.
type byteReader struct {
	b   []byte
	pos int
	err error
}

func (r *byteReader) readG1() (curve.G1, error) {
	if r.err != nil {
		return curve.G1{}, r.err
	}
	if r.pos+curve.G1EncodedSize > len(r.b) {
		return curve.G1{}, ErrShapeMismatch
	}
	p, err := curve.UnmarshalG1(r.b[r.pos : r.pos+curve.G1EncodedSize])
	if err != nil {
		return curve.G1{}, err
	}
	r.pos += curve.G1EncodedSize
	return p, nil
}

func (r *byteReader) readG2() (curve.G2, error) {
	if r.err != nil {
		return curve.G2{}, r.err
	}
	if r.pos+curve.G2EncodedSize > len(r.b) {
		return curve.G2{}, ErrShapeMismatch
	}
	p, err := curve.UnmarshalG2(r.b[r.pos : r.pos+curve.G2EncodedSize])
	if err != nil {
		return curve.G2{}, err
	}
	r.pos += curve.G2EncodedSize
	return p, nil
}
