package ceremony

import (
	"context"

	"github.com/asv/mpc/curve"
	"github.com/asv/mpc/internal/objpool"
	"github.com/asv/mpc/qap"
	"github.com/asv/mpc/secrets"
)

// Stage3 holds the H-query vector, initialized from the finalized
// Stage1 powers of tau and then rescaled by each player's (ρ_a·ρ_b)^-1,
// per spec §4.5.
type Stage3 struct {
	H []curve.G1
}

// NewStage3FromStage1 computes H[i] = τ^i·Z(τ)·g1 directly from the
// finalized Stage1 g1 powers, via qap.CS.HBasis.
func NewStage3FromStage1(cs *qap.CS, s1 *Stage1) (*Stage3, error) {
	h, err := cs.HBasis(s1.G1Pows)
	if err != nil {
		return nil, err
	}
	return &Stage3{H: h}, nil
}

// Transform applies one player's (ρ_a·ρ_b)^-1 contribution.
func (s *Stage3) Transform(ctx context.Context, sec *secrets.Secrets) (*Stage3, error) {
	rhoAB := sec.RhoA.Mul(sec.RhoB)
	inv := rhoAB.Inverse()
	invVec := constVec(inv, len(s.H))
	defer objpool.PutFrSlice(invVec)
	h, err := curve.ScalarMulVector(ctx, s.H, invVec)
	if err != nil {
		return nil, err
	}
	return &Stage3{H: h}, nil
}

// VerifyTransform checks that new was produced from s by scaling every
// H entry by the same (ρ_a·ρ_b)^-1. Since the witness pubkey.RhoAB
// published by the player attests to ρ_a·ρ_b (not its inverse), the
// ratio check is run with old and new swapped: ratio(new.H, s.H) ==
// ρ_a·ρ_b is equivalent to ratio(s.H, new.H) == (ρ_a·ρ_b)^-1.
func (s *Stage3) VerifyTransform(new *Stage3, pubkey *secrets.PublicKey) error {
	if len(s.H) != len(new.H) {
		return ErrShapeMismatch
	}
	ok, err := curve.BatchSameRatio(new.H, s.H, pubkey.RhoAB.F, pubkey.RhoAB.XF)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadTransform
	}
	return nil
}
