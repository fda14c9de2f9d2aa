package multicore

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when a caller passes workers <= 0; it matches the
// ceremony's historical THREADS=128 default. The constant itself is not
// capped to the host's CPU count; Run separately limits how many chunks
// execute at once to runtime.GOMAXPROCS(0).
const DefaultWorkers = 128

// Chunk describes one contiguous slice of work, [Start, End).
type Chunk struct {
	Start, End int
}

// Split partitions [0, n) into at most workers contiguous chunks of
// roughly equal size. Chunks never overlap and always cover the full
// range. When n is smaller than workers, the chunk count drops to n, so
// no chunk is ever empty.
func Split(n, workers int) []Chunk {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > n && n > 0 {
		workers = n
	}
	if workers == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, workers)
	base := n / workers
	rem := n % workers
	start := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		chunks = append(chunks, Chunk{Start: start, End: start + size})
		start += size
	}
	return chunks
}

// Run splits [0, n) into chunks bounded by workers (DefaultWorkers if
// workers <= 0, never more than runtime.GOMAXPROCS(0) goroutines actually
// scheduled concurrently in practice) and calls fn once per chunk from
// its own goroutine, returning the first error encountered and cancelling
// the rest via the errgroup's derived context.
//
// fn must be safe to call concurrently for disjoint [start, end) ranges;
// every stage transform in the ceremony satisfies this because each
// vector entry is either an independent scalar multiplication or belongs
// to a disjoint reduction.
func Run(ctx context.Context, n, workers int, fn func(ctx context.Context, start, end int) error) error {
	if n == 0 {
		return nil
	}
	chunks := Split(n, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			return fn(gctx, c.Start, c.End)
		})
	}
	return g.Wait()
}
