package ceremony

import "errors"

// ErrBadTransform is fatal: a player's transform failed a same-ratio or
// non-identity check (spec §4.3-§4.5, §7).
var ErrBadTransform = errors.New("ceremony: transform failed verification")

// ErrShapeMismatch indicates two stage states of incompatible vector
// lengths were compared or combined — a ProtocolError-class failure,
// since it means a malformed or truncated payload rather than a
// cryptographic cheat.
var ErrShapeMismatch = errors.New("ceremony: mismatched vector lengths between stages")
