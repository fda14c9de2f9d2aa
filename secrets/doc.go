// Package secrets models a single player's session: the eight scalars
// drawn at the start of the ceremony, the Schnorr-style s-pairs derived
// from them, and the commit-reveal wrapper around the resulting
// PublicKey. Grounded in the teacher's bbs/keygen.go sampling style and
// bbs/marshal.go's canonical serialization idiom, generalized from a
// single BLS key pair to the ceremony's eight-scalar secret set.
package secrets
