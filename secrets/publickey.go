package secrets

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/asv/mpc/curve"
)

// ErrIdentityElement is BadTransform-class: spec §4.1 requires every
// PublicKey element to be non-identity.
var ErrIdentityElement = errors.New("secrets: public key contains an identity element")

// SPairG1 is a Schnorr-style proof-of-knowledge pair (f, x·f) in G1,
// witnessing knowledge of x without revealing it.
type SPairG1 struct {
	F  curve.G1
	XF curve.G1
}

// SPairG2 mirrors SPairG1 in the second group.
type SPairG2 struct {
	F  curve.G2
	XF curve.G2
}

// Domain-separation tags, one per secret/group combination that gets an
// s-pair.
const (
	domainTau    = "mpc-ceremony/spair/tau/v1"
	domainAlphaA = "mpc-ceremony/spair/alpha_a/v1"
	domainAlphaB = "mpc-ceremony/spair/alpha_b/v1"
	domainAlphaC = "mpc-ceremony/spair/alpha_c/v1"
	domainBetaG1 = "mpc-ceremony/spair/beta_g1/v1"
	domainBetaG2 = "mpc-ceremony/spair/beta_g2/v1"
	domainRhoA       = "mpc-ceremony/spair/rho_a/v1"
	domainRhoB       = "mpc-ceremony/spair/rho_b/v1"
	domainRhoBG1     = "mpc-ceremony/spair/rho_b_g1/v1"
	domainGamma      = "mpc-ceremony/spair/gamma/v1"
	domainRhoAB      = "mpc-ceremony/spair/rho_ab/v1"
	domainBetaRhoAB  = "mpc-ceremony/spair/beta_rho_ab/v1"
	domainAlphaAG1   = "mpc-ceremony/spair/alpha_a_g1/v1"
	domainAlphaCG1   = "mpc-ceremony/spair/alpha_c_g1/v1"
	domainBetaGammaG2 = "mpc-ceremony/spair/beta_gamma_g2/v1"
	domainBetaGammaG1 = "mpc-ceremony/spair/beta_gamma_g1/v1"
)

// PublicKey carries one s-pair per secret, in whichever group
// curve.SameRatio's *other* argument slot needs: SameRatio(a,b ∈ G1, c,d
// ∈ G2) checks ratio(a,b) == ratio(c,d). To verify a G1-valued stage
// vector (g1_pows, the α-shifted copies, the β·g1 vector, the A/C query)
// against a secret, that secret's s-pair must live in G2 to occupy the
// second slot; to verify a G2-valued vector (g2_pows, the β·g2 vector,
// the B query, γ·g2) the s-pair must live in G1. Hence τ/α_a/α_b/α_c/ρ_a
// are witnessed in G2, and β additionally in G1 (for the β·g2 side),
// ρ_b and γ in G1.
//
// RhoBPrime, RhoAB and BetaRhoAB witness compound scalars rather than a
// single secret: B′, C/C′/H and K are each scaled by a product of two or
// three secrets at once (spec §4.4-§4.5), and since a pairing can't
// multiply two independent unknown exponents together on the verifier's
// side, the player instead multiplies the scalars itself (it knows all
// of them) and publishes a single s-pair for the product — the practical
// form of the "pairing composition at verify time" spec §4.5 describes.
//
// AlphaAG1, AlphaCG1, BetaGammaWitnessG2 and BetaGammaWitnessG1 exist
// only to verify Stage1's single VK-bound elements (alpha_a_g2,
// alpha_c_g2, beta_gamma_g1, beta_gamma_g2): those live in the opposite
// group from AlphaA/AlphaC/a dedicated beta*gamma witness, so they need
// their own s-pair in the group the corresponding element is missing.
type PublicKey struct {
	Tau       SPairG2
	AlphaA    SPairG2
	AlphaB    SPairG2
	AlphaC    SPairG2
	BetaG1    SPairG2 // witnesses β against the G1-valued β·g1_pows vector
	BetaG2    SPairG1 // witnesses β against the G2-valued β·g2_pows vector
	RhoA      SPairG2 // witnesses ρ_a against the G1-valued A/A′ query
	RhoB      SPairG1 // witnesses ρ_b against the G2-valued B query
	RhoBPrime SPairG2 // witnesses ρ_b against the G1-valued B′ query
	Gamma     SPairG1
	RhoAB     SPairG2 // witnesses ρ_a·ρ_b against the G1-valued C/C′/H vectors
	BetaRhoAB SPairG2 // witnesses β·ρ_a·ρ_b against the G1-valued K vector

	AlphaAG1          SPairG1 // witnesses α_a against Stage1's G2-valued alpha_a_g2
	AlphaCG1          SPairG1 // witnesses α_c against Stage1's G2-valued alpha_c_g2
	BetaGammaWitnessG2 SPairG2 // witnesses β·γ against Stage1's G1-valued beta_gamma_g1
	BetaGammaWitnessG1 SPairG1 // witnesses β·γ against Stage1's G2-valued beta_gamma_g2
}

// deriveNonceG1 implements hash_to_group for G1: HKDF-Expand(sessionID,
// domainTag) reduced to a scalar, then that scalar times g1. HKDF is used
// here purely as a domain-separated pseudorandom function, not for key
// derivation in the usual sense — it lets every secret's nonce be bound
// to both the session and the secret's identity with one primitive.
func deriveNonceG1(sessionID []byte, domainTag string) curve.G1 {
	digest := deriveDigest(sessionID, domainTag)
	return curve.HashToG1(digest)
}

func deriveNonceG2(sessionID []byte, domainTag string) curve.G2 {
	digest := deriveDigest(sessionID, domainTag)
	return curve.HashToG2(digest)
}

func deriveDigest(sessionID []byte, domainTag string) []byte {
	r := hkdf.New(sha256.New, sessionID, nil, []byte(domainTag))
	okm := make([]byte, 32)
	// hkdf.New's Reader never errors for requests within its output-length
	// limit (255*hash size), which 32 bytes is nowhere near.
	if _, err := io.ReadFull(r, okm); err != nil {
		panic("secrets: hkdf expand failed unexpectedly: " + err.Error())
	}
	return okm
}

// SPairs derives this player's PublicKey from its secrets and a
// session-unique identifier, per spec §4.1. sessionID should be unique
// per ceremony run so that two ceremonies never reuse the same f_x
// nonces; the player client passes its peer ID.
func (s *Secrets) SPairs(sessionID []byte) *PublicKey {
	g1Pair := func(domainTag string, x curve.Fr) SPairG1 {
		f := deriveNonceG1(sessionID, domainTag)
		return SPairG1{F: f, XF: f.ScalarMul(x)}
	}
	g2Pair := func(domainTag string, x curve.Fr) SPairG2 {
		f := deriveNonceG2(sessionID, domainTag)
		return SPairG2{F: f, XF: f.ScalarMul(x)}
	}

	return &PublicKey{
		Tau:       g2Pair(domainTau, s.Tau),
		AlphaA:    g2Pair(domainAlphaA, s.AlphaA),
		AlphaB:    g2Pair(domainAlphaB, s.AlphaB),
		AlphaC:    g2Pair(domainAlphaC, s.AlphaC),
		BetaG1:    g2Pair(domainBetaG1, s.Beta),
		BetaG2:    g1Pair(domainBetaG2, s.Beta),
		RhoA:      g2Pair(domainRhoA, s.RhoA),
		RhoB:      g1Pair(domainRhoB, s.RhoB),
		RhoBPrime: g2Pair(domainRhoBG1, s.RhoB),
		Gamma:     g1Pair(domainGamma, s.Gamma),
		RhoAB:     g2Pair(domainRhoAB, s.RhoA.Mul(s.RhoB)),
		BetaRhoAB: g2Pair(domainBetaRhoAB, s.Beta.Mul(s.RhoA).Mul(s.RhoB)),

		AlphaAG1:           g1Pair(domainAlphaAG1, s.AlphaA),
		AlphaCG1:           g1Pair(domainAlphaCG1, s.AlphaC),
		BetaGammaWitnessG2: g2Pair(domainBetaGammaG2, s.Beta.Mul(s.Gamma)),
		BetaGammaWitnessG1: g1Pair(domainBetaGammaG1, s.Beta.Mul(s.Gamma)),
	}
}

// Validate checks the non-identity invariant spec §4.1 requires of every
// PublicKey element.
func (pk *PublicKey) Validate() error {
	g1Pairs := []SPairG1{pk.BetaG2, pk.RhoB, pk.Gamma, pk.AlphaAG1, pk.AlphaCG1, pk.BetaGammaWitnessG1}
	for _, p := range g1Pairs {
		if p.F.IsIdentity() || p.XF.IsIdentity() {
			return ErrIdentityElement
		}
	}
	g2Pairs := []SPairG2{pk.Tau, pk.AlphaA, pk.AlphaB, pk.AlphaC, pk.BetaG1, pk.RhoA, pk.RhoBPrime, pk.RhoAB, pk.BetaRhoAB, pk.BetaGammaWitnessG2}
	for _, p := range g2Pairs {
		if p.F.IsIdentity() || p.XF.IsIdentity() {
			return ErrIdentityElement
		}
	}
	return nil
}

// CanonicalBytes serializes the PublicKey in the fixed field order used
// by Hash and by the wire protocol: each group element as its compressed
// tagged encoding, concatenated.
func (pk *PublicKey) CanonicalBytes() []byte {
	var out []byte
	appendG1 := func(p SPairG1) {
		out = append(out, curve.MarshalG1(p.F)...)
		out = append(out, curve.MarshalG1(p.XF)...)
	}
	appendG2 := func(p SPairG2) {
		out = append(out, curve.MarshalG2(p.F)...)
		out = append(out, curve.MarshalG2(p.XF)...)
	}
	appendG2(pk.Tau)
	appendG2(pk.AlphaA)
	appendG2(pk.AlphaB)
	appendG2(pk.AlphaC)
	appendG2(pk.BetaG1)
	appendG1(pk.BetaG2)
	appendG2(pk.RhoA)
	appendG1(pk.RhoB)
	appendG2(pk.RhoBPrime)
	appendG1(pk.Gamma)
	appendG2(pk.RhoAB)
	appendG2(pk.BetaRhoAB)
	appendG1(pk.AlphaAG1)
	appendG1(pk.AlphaCG1)
	appendG2(pk.BetaGammaWitnessG2)
	appendG1(pk.BetaGammaWitnessG1)
	return out
}

// Hash returns the 32-byte SHA-256 digest of CanonicalBytes, per spec
// §4.1's PublicKey::hash and §6's commit-hash definition.
func (pk *PublicKey) Hash() [32]byte {
	return sha256.Sum256(pk.CanonicalBytes())
}
