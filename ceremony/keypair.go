package ceremony

import (
	"os"
	"path/filepath"

	"github.com/asv/mpc/curve"
	"github.com/asv/mpc/qap"
)

// ProvingKey holds the assembled, non-input-restricted query vectors a
// BCTV14 prover needs, per spec §3's Keypair row.
type ProvingKey struct {
	A      []curve.G1
	APrime []curve.G1
	B      []curve.G2
	BPrime []curve.G1
	C      []curve.G1
	CPrime []curve.G1
	K      []curve.G1
	H      []curve.G1
}

// VerifyingKey holds the small, fixed-size elements a BCTV14 verifier
// needs, plus the input window split out of A.
type VerifyingKey struct {
	AlphaAG2    curve.G2
	AlphaBG1    curve.G1
	AlphaCG2    curve.G2
	GammaG2     curve.G2
	BetaGammaG1 curve.G1
	BetaGammaG2 curve.G2
	ZG2         curve.G2
	InputA      []curve.G1
}

// Keypair is the ceremony's final output, produced exactly once, at the
// coordinator's Finalized transition (spec §4.6).
type Keypair struct {
	Proving  ProvingKey
	Verifying VerifyingKey
}

// Assemble builds the Keypair from the finalized Stage1/Stage2/Stage3
// states, per spec §4.6: the verifying key's alpha/beta/gamma elements
// and Z·g2 come from Stage1; the proving key from Stage2 ∪ Stage3
// restricted to non-input variables, with the first NumInputs entries of
// A split into the verifying key's input window instead.
func Assemble(cs *qap.CS, s1 *Stage1, s2 *Stage2, s3 *Stage3) (*Keypair, error) {
	if len(s2.A) != cs.NumVars || len(s3.H) != cs.D+1 {
		return nil, ErrShapeMismatch
	}

	_, g2 := curve.Generators()
	zG2 := s1.G2Pows[cs.D].Add(g2.Neg())

	n := cs.NumInputs

	return &Keypair{
		Proving: ProvingKey{
			A:      s2.A[n:],
			APrime: s2.APrime[n:],
			B:      s2.B[n:],
			BPrime: s2.BPrime[n:],
			C:      s2.C[n:],
			CPrime: s2.CPrime[n:],
			K:      s2.K[n:],
			H:      s3.H,
		},
		Verifying: VerifyingKey{
			AlphaAG2:    s1.AlphaAG2,
			AlphaBG1:    s1.AlphaBG1,
			AlphaCG2:    s1.AlphaCG2,
			GammaG2:     s1.GammaG2,
			BetaGammaG1: s1.BetaGammaG1,
			BetaGammaG2: s1.BetaGammaG2,
			ZG2:         zG2,
			InputA:      s2.A[:n],
		},
	}, nil
}

// CanonicalBytes serializes the Keypair in a fixed field order, each
// group element as its compressed tagged encoding — the format
// persisted to keypair.bin (spec §6).
func (kp *Keypair) CanonicalBytes() []byte {
	var out []byte
	for _, p := range kp.Proving.A {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range kp.Proving.APrime {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range kp.Proving.B {
		out = append(out, curve.MarshalG2(p)...)
	}
	for _, p := range kp.Proving.BPrime {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range kp.Proving.C {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range kp.Proving.CPrime {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range kp.Proving.K {
		out = append(out, curve.MarshalG1(p)...)
	}
	for _, p := range kp.Proving.H {
		out = append(out, curve.MarshalG1(p)...)
	}
	out = append(out, curve.MarshalG2(kp.Verifying.AlphaAG2)...)
	out = append(out, curve.MarshalG1(kp.Verifying.AlphaBG1)...)
	out = append(out, curve.MarshalG2(kp.Verifying.AlphaCG2)...)
	out = append(out, curve.MarshalG2(kp.Verifying.GammaG2)...)
	out = append(out, curve.MarshalG1(kp.Verifying.BetaGammaG1)...)
	out = append(out, curve.MarshalG2(kp.Verifying.BetaGammaG2)...)
	out = append(out, curve.MarshalG2(kp.Verifying.ZG2)...)
	for _, p := range kp.Verifying.InputA {
		out = append(out, curve.MarshalG1(p)...)
	}
	return out
}

// Persist writes the Keypair atomically to path (spec §6: "no
// intermediate checkpoints are persisted" implies the final write
// itself must not leave a torn file behind on crash), via a temp file
// in the same directory followed by an atomic rename.
func Persist(path string, kp *Keypair) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".keypair-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(kp.CanonicalBytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
