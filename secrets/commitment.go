package secrets

import (
	"crypto/subtle"
	"errors"
)

// ErrBadCommitment is fatal (spec §7): a revealed PublicKey does not hash
// to the commitment the player sent before Stage1.
var ErrBadCommitment = errors.New("secrets: revealed public key does not match commitment")

// Commitment is the 32-byte binding digest a player sends before seeing
// any stage payload, per spec §3 and §6.
type Commitment [32]byte

// Commit returns the Commitment binding pk, to be sent before pk itself
// is ever revealed.
func Commit(pk *PublicKey) Commitment {
	return Commitment(pk.Hash())
}

// Verify checks that pk hashes to c, resolving the
// "verify pubkey against comm" TODO left open in the original ceremony
// (spec §9 Open Questions item 2). Uses a constant-time comparison since
// this gates acceptance of untrusted network input.
func (c Commitment) Verify(pk *PublicKey) error {
	got := pk.Hash()
	if subtle.ConstantTimeCompare(c[:], got[:]) != 1 {
		return ErrBadCommitment
	}
	return nil
}
