package ceremony

import (
	"context"

	"github.com/asv/mpc/curve"
	"github.com/asv/mpc/internal/objpool"
	"github.com/asv/mpc/secrets"
)

// Stage1 is the powers-of-tau state: the shared vectors every player's
// τ/α_a/α_b/α_c/β contribution scales in place. Indices follow spec §3's
// positional invariants, sized generously enough to also serve as the
// basis Stage3's H-query is computed from (HBasis needs g1 powers up to
// index 2D).
type Stage1 struct {
	G1Pows []curve.G1 // length 2D+1; g1Pows[i] = τ^i · g1
	G2Pows []curve.G2 // length D+1;  g2Pows[i] = τ^i · g2
	AlphaA []curve.G1 // length D+1;  α_a · τ^i · g1
	AlphaB []curve.G1 // length D+1;  α_b · τ^i · g1
	AlphaC []curve.G1 // length D+1;  α_c · τ^i · g1
	BetaG1 []curve.G1 // length D+1;  β · τ^i · g1
	BetaG2 []curve.G2 // length D+1;  β · τ^i · g2

	// Single (non-power) elements feeding directly into the verifying
	// key (spec §3's Keypair row), none of which multiply τ.
	GammaG2      curve.G2 // γ · g2
	AlphaAG2     curve.G2 // α_a · g2
	AlphaBG1     curve.G1 // α_b · g1
	AlphaCG2     curve.G2 // α_c · g2
	BetaGammaG1  curve.G1 // β·γ · g1
	BetaGammaG2  curve.G2 // β·γ · g2
}

// NewStage1 builds the ceremony's starting state: τ=1, so every power
// position equals the bare generator, and the γ slot equals g2 itself.
func NewStage1(d int) *Stage1 {
	g1, g2 := curve.Generators()
	s := &Stage1{
		G1Pows:      make([]curve.G1, 2*d+1),
		G2Pows:      make([]curve.G2, d+1),
		AlphaA:      make([]curve.G1, d+1),
		AlphaB:      make([]curve.G1, d+1),
		AlphaC:      make([]curve.G1, d+1),
		BetaG1:      make([]curve.G1, d+1),
		BetaG2:      make([]curve.G2, d+1),
		GammaG2:     g2,
		AlphaAG2:    g2,
		AlphaBG1:    g1,
		AlphaCG2:    g2,
		BetaGammaG1: g1,
		BetaGammaG2: g2,
	}
	for i := range s.G1Pows {
		s.G1Pows[i] = g1
	}
	for i := range s.G2Pows {
		s.G2Pows[i] = g2
		s.AlphaA[i] = g1
		s.AlphaB[i] = g1
		s.AlphaC[i] = g1
		s.BetaG1[i] = g1
		s.BetaG2[i] = g2
	}
	return s
}

// Transform applies one player's τ/α_a/α_b/α_c/β contribution, per spec
// §4.3: every position i is multiplied by τ^i (and additionally by the
// relevant α/β scalar for the shifted vectors).
func (s *Stage1) Transform(ctx context.Context, sec *secrets.Secrets) (*Stage1, error) {
	tauPowsG1 := powersOf(sec.Tau, len(s.G1Pows))
	tauPowsG2 := powersOf(sec.Tau, len(s.G2Pows))
	defer objpool.PutFrSlice(tauPowsG1)
	defer objpool.PutFrSlice(tauPowsG2)

	alphaATauPows := scaleEach(tauPowsG2, sec.AlphaA)
	alphaBTauPows := scaleEach(tauPowsG2, sec.AlphaB)
	alphaCTauPows := scaleEach(tauPowsG2, sec.AlphaC)
	betaTauPows := scaleEach(tauPowsG2, sec.Beta)
	defer objpool.PutFrSlice(alphaATauPows)
	defer objpool.PutFrSlice(alphaBTauPows)
	defer objpool.PutFrSlice(alphaCTauPows)
	defer objpool.PutFrSlice(betaTauPows)

	g1Pows, err := curve.ScalarMulVector(ctx, s.G1Pows, tauPowsG1)
	if err != nil {
		return nil, err
	}
	g2Pows, err := curve.ScalarMulVectorG2(ctx, s.G2Pows, tauPowsG2)
	if err != nil {
		return nil, err
	}
	alphaA, err := curve.ScalarMulVector(ctx, s.AlphaA, alphaATauPows)
	if err != nil {
		return nil, err
	}
	alphaB, err := curve.ScalarMulVector(ctx, s.AlphaB, alphaBTauPows)
	if err != nil {
		return nil, err
	}
	alphaC, err := curve.ScalarMulVector(ctx, s.AlphaC, alphaCTauPows)
	if err != nil {
		return nil, err
	}
	betaG1, err := curve.ScalarMulVector(ctx, s.BetaG1, betaTauPows)
	if err != nil {
		return nil, err
	}
	betaG2, err := curve.ScalarMulVectorG2(ctx, s.BetaG2, betaTauPows)
	if err != nil {
		return nil, err
	}

	betaGamma := sec.Beta.Mul(sec.Gamma)

	return &Stage1{
		G1Pows:      g1Pows,
		G2Pows:      g2Pows,
		AlphaA:      alphaA,
		AlphaB:      alphaB,
		AlphaC:      alphaC,
		BetaG1:      betaG1,
		BetaG2:      betaG2,
		GammaG2:     s.GammaG2.ScalarMul(sec.Gamma),
		AlphaAG2:    s.AlphaAG2.ScalarMul(sec.AlphaA),
		AlphaBG1:    s.AlphaBG1.ScalarMul(sec.AlphaB),
		AlphaCG2:    s.AlphaCG2.ScalarMul(sec.AlphaC),
		BetaGammaG1: s.BetaGammaG1.ScalarMul(betaGamma),
		BetaGammaG2: s.BetaGammaG2.ScalarMul(betaGamma),
	}, nil
}

// scaleEach multiplies each entry of a power vector by a fixed extra
// scalar, producing e.g. [α·τ^0, α·τ^1, ...] from [τ^0, τ^1, ...]. Like
// powersOf, the result is pool-backed and must be returned by the caller.
func scaleEach(pows []curve.Fr, extra curve.Fr) []curve.Fr {
	out := objpool.GetFrSlice(len(pows))[:len(pows)]
	for i, p := range pows {
		out[i] = p.Mul(extra)
	}
	return out
}

// VerifyTransform checks that new was produced from s (the previous
// state) by a valid application of Transform with the secrets witnessed
// by pubkey, in seven numbered checks: spec §4.3's six plus a seventh on
// the single VK-bound elements. It never learns the secrets themselves.
func (s *Stage1) VerifyTransform(new *Stage1, pubkey *secrets.PublicKey) error {
	g1, g2 := curve.Generators()

	// 1. Non-triviality.
	if new.G1Pows[1].IsIdentity() || new.G2Pows[1].IsIdentity() {
		return ErrBadTransform
	}

	// 2. Knowledge-of-exponent for τ.
	ok, err := curve.SameRatio(s.G1Pows[1], new.G1Pows[1], pubkey.Tau.F, pubkey.Tau.XF)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadTransform
	}

	// 3. τ in G1 matches τ in G2.
	ok, err = curve.SameRatio(g1, new.G1Pows[1], g2, new.G2Pows[1])
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadTransform
	}

	// 4. Geometric progression of the powers.
	if err := checkGeometricProgression(new.G1Pows, new.G2Pows[0], new.G2Pows[1]); err != nil {
		return err
	}
	if err := checkGeometricProgressionG2(new.G2Pows, new.G1Pows[0], new.G1Pows[1]); err != nil {
		return err
	}

	// 5. α-shifted vectors share the accumulated α ratio with the
	// unshifted powers. The ratio is read off the single VK-bound
	// elements (alpha_a_g2, alpha_c_g2, alpha_b_g1) that check 7 ties to
	// this player's s-pairs, so the check also holds after earlier
	// players have already scaled the vectors.
	if ok, err := curve.BatchSameRatio(truncateG1(new.G1Pows, len(new.AlphaA)), new.AlphaA, g2, new.AlphaAG2); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if err := checkGeometricProgression(new.AlphaB, new.G2Pows[0], new.G2Pows[1]); err != nil {
		return err
	}
	if !new.AlphaB[0].Equal(new.AlphaBG1) {
		return ErrBadTransform
	}
	if ok, err := curve.BatchSameRatio(truncateG1(new.G1Pows, len(new.AlphaC)), new.AlphaC, g2, new.AlphaCG2); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}

	// 6. β-shifted vectors, both groups, plus a β_g1 vs β_g2 cross-check.
	// β_g2[0] is checked against the previous state with this player's
	// s-pair, and the rest of both vectors against that element.
	if ok, err := curve.BatchSameRatio(truncateG1(new.G1Pows, len(new.BetaG1)), new.BetaG1, g2, new.BetaG2[0]); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.SameRatioG2First(s.BetaG2[0], new.BetaG2[0], pubkey.BetaG2.F, pubkey.BetaG2.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if err := checkGeometricProgressionG2(new.BetaG2, new.G1Pows[0], new.G1Pows[1]); err != nil {
		return err
	}
	// Cross-check: β_g1[0]/g1 must equal β_g2[0]/g2, i.e. both vectors
	// were scaled by the same β.
	if ok, err := curve.SameRatio(g1, new.BetaG1[0], g2, new.BetaG2[0]); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}

	// 7. The single VK-bound elements: alpha_a_g2, alpha_b_g1,
	// alpha_c_g2, beta_gamma_g1, beta_gamma_g2.
	if ok, err := curve.SameRatioG2First(s.AlphaAG2, new.AlphaAG2, pubkey.AlphaAG1.F, pubkey.AlphaAG1.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.SameRatio(s.AlphaBG1, new.AlphaBG1, pubkey.AlphaB.F, pubkey.AlphaB.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.SameRatioG2First(s.AlphaCG2, new.AlphaCG2, pubkey.AlphaCG1.F, pubkey.AlphaCG1.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.SameRatio(s.BetaGammaG1, new.BetaGammaG1, pubkey.BetaGammaWitnessG2.F, pubkey.BetaGammaWitnessG2.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}
	if ok, err := curve.SameRatioG2First(s.BetaGammaG2, new.BetaGammaG2, pubkey.BetaGammaWitnessG1.F, pubkey.BetaGammaWitnessG1.XF); err != nil {
		return err
	} else if !ok {
		return ErrBadTransform
	}

	return nil
}

// truncateG1 returns the first n elements of vs, the natural basis
// against which an n-length shifted vector is ratio-checked.
func truncateG1(vs []curve.G1, n int) []curve.G1 {
	if n > len(vs) {
		n = len(vs)
	}
	return vs[:n]
}

// checkGeometricProgression verifies pows[i+1]/pows[i] is the
// same ratio for every i, anchored against (ref0, ref1) in G2 (spec
// §4.3 point 4).
func checkGeometricProgression(pows []curve.G1, ref0, ref1 curve.G2) error {
	n := len(pows) - 1
	if n <= 0 {
		return nil
	}
	as := make([]curve.G1, n)
	bs := make([]curve.G1, n)
	copy(as, pows[:n])
	copy(bs, pows[1:])
	ok, err := curve.BatchSameRatio(as, bs, ref0, ref1)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadTransform
	}
	return nil
}

// checkGeometricProgressionG2 mirrors checkGeometricProgression for the
// G2 powers vector, using curve.SameRatioG2First since the vector itself
// is G2-valued here.
func checkGeometricProgressionG2(pows []curve.G2, ref0, ref1 curve.G1) error {
	n := len(pows) - 1
	if n <= 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		ok, err := curve.SameRatioG2First(pows[i], pows[i+1], ref0, ref1)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBadTransform
		}
	}
	return nil
}
