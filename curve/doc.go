// Package curve is the thin façade the rest of the ceremony programs
// against instead of talking to gnark-crypto's bn254 package directly.
//
// It supplies:
//   - Fr, G1, G2, GT wrapper types with random sampling, scalar
//     multiplication, pairing and constant-time equality
//   - compressed affine encode/decode matching the wire format in
//     the coordinator/player protocol
//   - multi-scalar multiplication delegating to internal/multicore for
//     large vectors
//
// Nothing here is ceremony-specific; its callers are the secrets, qap
// and ceremony packages and internal/objpool.
package curve
