package ceremony

import (
	"context"

	"github.com/asv/mpc/curve"
	"github.com/asv/mpc/internal/objpool"
	"github.com/asv/mpc/qap"
	"github.com/asv/mpc/secrets"
)

// Stage2 holds the per-variable query vectors, initialized once from the
// finalized Stage1 state and then rescaled by each player's ρ_a/ρ_b/β
// contribution in turn (spec §4.4). B and B′ live in different groups —
// B in G2, B′ in G1 — an asymmetry inherited from the Pinocchio/BCTV14
// proving-key layout so the eventual SNARK verifier needs only one
// pairing equation per check.
type Stage2 struct {
	A      []curve.G1
	APrime []curve.G1
	B      []curve.G2
	BPrime []curve.G1
	C      []curve.G1
	CPrime []curve.G1
	K      []curve.G1
}

// NewStage2FromStage1 evaluates every query vector against the finalized
// Stage1 powers-of-tau and α/β-shifted bases. This runs once, after the
// last Stage1 player has completed their transform; it takes no secrets
// and produces no proof obligation of its own.
func NewStage2FromStage1(ctx context.Context, cs *qap.CS, s1 *Stage1) (*Stage2, error) {
	qv, err := cs.EvaluateQueries(ctx, s1.G1Pows, s1.G2Pows)
	if err != nil {
		return nil, err
	}
	pqv, err := cs.EvaluatePrimedQueries(s1.AlphaA, s1.AlphaB, s1.AlphaC, s1.BetaG1)
	if err != nil {
		return nil, err
	}
	return &Stage2{
		A:      qv.A,
		B:      qv.B,
		C:      qv.C,
		APrime: pqv.APrime,
		BPrime: pqv.BPrime,
		CPrime: pqv.CPrime,
		K:      pqv.K,
	}, nil
}

// Transform applies one player's ρ_a/ρ_b/β contribution, per spec §4.4:
//
//	A[j]  ← ρ_a · A[j];       A′[j] ← ρ_a · A′[j]
//	B[j]  ← ρ_b · B[j];       B′[j] ← ρ_b · B′[j]
//	C[j]  ← ρ_a·ρ_b · C[j];   C′[j] ← ρ_a·ρ_b · C′[j]
//	K[j]  ← β·ρ_a·ρ_b · K[j]
//
// A and A′ (and B and B′, C and C′) always scale by the identical
// factor: each pair's ratio was fixed once, during initialization
// against Stage1's verified α-shifted basis, and is preserved rather
// than re-derived on every subsequent round.
func (s *Stage2) Transform(ctx context.Context, sec *secrets.Secrets) (*Stage2, error) {
	n := len(s.A)
	rhoAB := sec.RhoA.Mul(sec.RhoB)
	betaRhoAB := sec.Beta.Mul(rhoAB)

	rhoAVec := constVec(sec.RhoA, n)
	rhoBVec := constVec(sec.RhoB, n)
	rhoABVec := constVec(rhoAB, n)
	betaRhoABVec := constVec(betaRhoAB, n)
	defer objpool.PutFrSlice(rhoAVec)
	defer objpool.PutFrSlice(rhoBVec)
	defer objpool.PutFrSlice(rhoABVec)
	defer objpool.PutFrSlice(betaRhoABVec)

	a, err := curve.ScalarMulVector(ctx, s.A, rhoAVec)
	if err != nil {
		return nil, err
	}
	aPrime, err := curve.ScalarMulVector(ctx, s.APrime, rhoAVec)
	if err != nil {
		return nil, err
	}
	b, err := curve.ScalarMulVectorG2(ctx, s.B, rhoBVec)
	if err != nil {
		return nil, err
	}
	bPrime, err := curve.ScalarMulVector(ctx, s.BPrime, rhoBVec)
	if err != nil {
		return nil, err
	}
	c, err := curve.ScalarMulVector(ctx, s.C, rhoABVec)
	if err != nil {
		return nil, err
	}
	cPrime, err := curve.ScalarMulVector(ctx, s.CPrime, rhoABVec)
	if err != nil {
		return nil, err
	}
	k, err := curve.ScalarMulVector(ctx, s.K, betaRhoABVec)
	if err != nil {
		return nil, err
	}

	return &Stage2{A: a, APrime: aPrime, B: b, BPrime: bPrime, C: c, CPrime: cPrime, K: k}, nil
}

// VerifyTransform checks that new was produced from s by a valid
// application of Transform, per spec §4.4: each family is checked
// against the previous state using same_ratio (or its batched form)
// with the pubkey s-pair that witnesses its scaling factor.
func (s *Stage2) VerifyTransform(new *Stage2, pubkey *secrets.PublicKey) error {
	if len(s.A) != len(new.A) {
		return ErrShapeMismatch
	}

	if ok, err := curve.BatchSameRatio(s.A, new.A, pubkey.RhoA.F, pubkey.RhoA.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.BatchSameRatio(s.APrime, new.APrime, pubkey.RhoA.F, pubkey.RhoA.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.BatchSameRatioG2First(s.B, new.B, pubkey.RhoB.F, pubkey.RhoB.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.BatchSameRatio(s.BPrime, new.BPrime, pubkey.RhoBPrime.F, pubkey.RhoBPrime.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.BatchSameRatio(s.C, new.C, pubkey.RhoAB.F, pubkey.RhoAB.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.BatchSameRatio(s.CPrime, new.CPrime, pubkey.RhoAB.F, pubkey.RhoAB.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.BatchSameRatio(s.K, new.K, pubkey.BetaRhoAB.F, pubkey.BetaRhoAB.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}

	return nil
}
