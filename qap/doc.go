// Package qap is the ceremony's QAP seed: it owns the rank-1 constraint
// system's shape (domain size, variable and input counts, the domain
// generator) and the per-variable u/v/w polynomials in monomial form, so
// that A[j]=u_j(τ)·g1 etc. can be evaluated "in the exponent" by a plain
// multi-scalar multiplication against a published powers-of-tau vector,
// without ever learning τ itself.
//
// The actual R1CS-to-QAP reduction (arithmetizing a circuit into
// constraints and interpolating them into u/v/w) is out of scope per the
// ceremony's spec — it is assumed available as a black box. Source is
// that black box's contract: Synthetic fabricates a QAP of a given shape
// for development and tests; FromFile loads one a real circuit compiler
// already reduced to this module's wire format.
package qap
