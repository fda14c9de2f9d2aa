package secrets

import (
	"errors"

	"github.com/asv/mpc/curve"
)

// ErrWeakRandomness is returned by New when a secret fails to sample,
// surfaced by the player client as the ceremony's fatal WeakRandomness
// error kind (spec §7).
var ErrWeakRandomness = errors.New("secrets: unable to sample secret scalars")

// Secrets holds one player's eight session scalars. None of these are
// ever serialized or sent on the wire; only the derived PublicKey and
// the transformed stage states are.
type Secrets struct {
	Tau    curve.Fr
	RhoA   curve.Fr
	RhoB   curve.Fr
	AlphaA curve.Fr
	AlphaB curve.Fr
	AlphaC curve.Fr
	Beta   curve.Fr
	Gamma  curve.Fr
}

// New samples all eight scalars uniformly at random from Fr\{0}, per
// spec §4.1's Secrets::new contract.
func New() (*Secrets, error) {
	vals := make([]curve.Fr, 8)
	for i := range vals {
		v, err := curve.RandomNonzeroFr()
		if err != nil {
			return nil, ErrWeakRandomness
		}
		vals[i] = v
	}
	return &Secrets{
		Tau:    vals[0],
		RhoA:   vals[1],
		RhoB:   vals[2],
		AlphaA: vals[3],
		AlphaB: vals[4],
		AlphaC: vals[5],
		Beta:   vals[6],
		Gamma:  vals[7],
	}, nil
}

// RhoProduct returns ρ_a·ρ_b, the scalar Stage3's H-query is inverse-scaled
// by (spec §4.5).
func (s *Secrets) RhoProduct() curve.Fr {
	return s.RhoA.Mul(s.RhoB)
}
