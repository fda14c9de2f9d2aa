package qap

import (
	"context"
	"errors"

	"github.com/asv/mpc/curve"
)

// ErrShapeMismatch is returned when a caller hands Evaluate a basis
// vector shorter than the polynomial it's evaluating.
var ErrShapeMismatch = errors.New("qap: basis vector shorter than polynomial degree")

// EvaluateG1 evaluates one variable's polynomial "in the exponent"
// against a G1 basis vector: Σ coeffs[i] * basis[i]. This is the
// operation behind every entry of spec §4.4's A/C/K query vectors, and
// (reused against an α-shifted or β-shifted basis) A′/B′/C′ as well.
func EvaluateG1(coeffs []curve.Fr, basis []curve.G1) (curve.G1, error) {
	if len(basis) < len(coeffs) {
		return curve.G1{}, ErrShapeMismatch
	}
	return curve.MultiScalarMulG1(basis[:len(coeffs)], coeffs)
}

// EvaluateG2 mirrors EvaluateG1 for a G2 basis (used for the B query).
func EvaluateG2(ctx context.Context, coeffs []curve.Fr, basis []curve.G2) (curve.G2, error) {
	if len(basis) < len(coeffs) {
		return curve.G2{}, ErrShapeMismatch
	}
	scaled, err := curve.ScalarMulVectorG2(ctx, basis[:len(coeffs)], coeffs)
	if err != nil {
		return curve.G2{}, err
	}
	var acc curve.G2
	for _, p := range scaled {
		acc = acc.Add(p)
	}
	return acc, nil
}

// QueryVectors holds the A/B/C per-variable query vectors Stage2
// initializes from a CS and a Stage1 powers-of-tau basis, before any
// player has applied their ρ scaling.
type QueryVectors struct {
	A []curve.G1
	B []curve.G2
	C []curve.G1
}

// EvaluateQueries computes A[j]/B[j]/C[j] for every variable j, per spec
// §4.4: A[j]=u_j(τ)·g1, B[j]=v_j(τ)·g2, C[j]=w_j(τ)·g1.
func (cs *CS) EvaluateQueries(ctx context.Context, g1Pows []curve.G1, g2Pows []curve.G2) (*QueryVectors, error) {
	if len(g1Pows) < cs.D || len(g2Pows) < cs.D {
		return nil, ErrShapeMismatch
	}

	out := &QueryVectors{
		A: make([]curve.G1, cs.NumVars),
		B: make([]curve.G2, cs.NumVars),
		C: make([]curve.G1, cs.NumVars),
	}
	for j := 0; j < cs.NumVars; j++ {
		a, err := EvaluateG1(cs.U[j], g1Pows)
		if err != nil {
			return nil, err
		}
		b, err := EvaluateG2(ctx, cs.V[j], g2Pows)
		if err != nil {
			return nil, err
		}
		c, err := EvaluateG1(cs.W[j], g1Pows)
		if err != nil {
			return nil, err
		}
		out.A[j], out.B[j], out.C[j] = a, b, c
	}
	return out, nil
}

// PrimedQueryVectors holds A′/B′/C′/K, each evaluated against an
// α- or β-shifted G1 basis instead of the bare powers of tau, per spec
// §4.4: A′[j]=α_a·u_j(τ)·g1 (computed as Σ u_j,i·α_a_g1_pows[i]), and
// likewise for B′, C′, and K=β·(u_j+v_j+w_j)(τ)·g1.
type PrimedQueryVectors struct {
	APrime []curve.G1
	BPrime []curve.G1
	CPrime []curve.G1
	K      []curve.G1
}

// EvaluatePrimedQueries computes A′/B′/C′/K from Stage1's α_a/α_b/α_c/β
// shifted G1 bases (AlphaA, AlphaB, AlphaC, BetaG1).
func (cs *CS) EvaluatePrimedQueries(alphaABasis, alphaBBasis, alphaCBasis, betaBasis []curve.G1) (*PrimedQueryVectors, error) {
	out := &PrimedQueryVectors{
		APrime: make([]curve.G1, cs.NumVars),
		BPrime: make([]curve.G1, cs.NumVars),
		CPrime: make([]curve.G1, cs.NumVars),
		K:      make([]curve.G1, cs.NumVars),
	}
	for j := 0; j < cs.NumVars; j++ {
		aPrime, err := EvaluateG1(cs.U[j], alphaABasis)
		if err != nil {
			return nil, err
		}
		bPrime, err := EvaluateG1(cs.V[j], alphaBBasis)
		if err != nil {
			return nil, err
		}
		cPrime, err := EvaluateG1(cs.W[j], alphaCBasis)
		if err != nil {
			return nil, err
		}
		sum := make([]curve.Fr, cs.D)
		for i := 0; i < cs.D; i++ {
			sum[i] = cs.U[j][i].Add(cs.V[j][i]).Add(cs.W[j][i])
		}
		k, err := EvaluateG1(sum, betaBasis)
		if err != nil {
			return nil, err
		}
		out.APrime[j], out.BPrime[j], out.CPrime[j], out.K[j] = aPrime, bPrime, cPrime, k
	}
	return out, nil
}

// HBasis computes Stage3's initial H-query vector directly from a
// published g1 powers-of-tau vector: H[i] = τ^i·Z(τ)·g1, where Z(X)=X^D−1
// is the evaluation domain's vanishing polynomial. Since
// Z(τ)·τ^i = τ^(i+D) − τ^i, this is a precomputable linear combination
// over Stage1.g1_pows with no new coefficients required, per spec §4.5.
func (cs *CS) HBasis(g1Pows []curve.G1) ([]curve.G1, error) {
	need := 2*cs.D + 1
	if len(g1Pows) < need {
		return nil, ErrShapeMismatch
	}
	h := make([]curve.G1, cs.D+1)
	for i := 0; i <= cs.D; i++ {
		h[i] = g1Pows[i+cs.D].Add(g1Pows[i].Neg())
	}
	return h, nil
}
