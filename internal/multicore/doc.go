// Package multicore provides the bounded worker pool the ceremony uses
// to parallelize the per-element vector operations of a stage transform
// (scalar-multiplying every entry of a powers-of-tau or query vector by a
// per-player secret). Work is split into contiguous chunks, one goroutine
// per chunk, joined through a single errgroup.Group barrier — mirroring
// the teacher's pkg/crypto/simd chunked-dispatch idiom but using a real
// concurrency primitive instead of a placeholder architecture check.
package multicore
