package multicore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestSplitCoversWholeRange(t *testing.T) {
	chunks := Split(100, 7)
	var total int
	prevEnd := 0
	for _, c := range chunks {
		if c.Start != prevEnd {
			t.Fatalf("gap in chunks: expected start %d, got %d", prevEnd, c.Start)
		}
		total += c.End - c.Start
		prevEnd = c.End
	}
	if total != 100 {
		t.Fatalf("expected chunks to cover 100 elements, covered %d", total)
	}
	if prevEnd != 100 {
		t.Fatalf("expected last chunk to end at 100, ended at %d", prevEnd)
	}
}

func TestSplitSmallerThanWorkers(t *testing.T) {
	chunks := Split(3, 128)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for n=3, got %d", len(chunks))
	}
}

func TestRunVisitsEveryIndex(t *testing.T) {
	const n = 1000
	var visited [n]int32
	err := Run(context.Background(), n, 16, func(_ context.Context, start, end int) error {
		for i := start; i < end; i++ {
			atomic.StoreInt32(&visited[i], 1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, v := range visited {
		if v != 1 {
			t.Fatalf("index %d was never visited", i)
		}
	}
}

func TestRunPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	err := Run(context.Background(), 10, 4, func(_ context.Context, start, end int) error {
		if start == 0 {
			return wantErr
		}
		return nil
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}
