package objpool

import (
	"sync"

	"github.com/asv/mpc/curve"
)

// Pool provides pooled slice allocations for the point vectors a stage
// transform builds and discards. It is safe for concurrent use.
type Pool struct {
	g1SlicePool sync.Pool
	g2SlicePool sync.Pool
	frSlicePool sync.Pool
}

// defaultSliceCap seeds every pooled slice's starting capacity; stage
// vectors in practice run from a few hundred to tens of thousands of
// entries, so this is deliberately small and lets Go's append amortize
// growth rather than over-allocating up front.
const defaultSliceCap = 64

// New constructs an empty Pool.
func New() *Pool {
	p := &Pool{}
	p.g1SlicePool.New = func() interface{} {
		return make([]curve.G1, 0, defaultSliceCap)
	}
	p.g2SlicePool.New = func() interface{} {
		return make([]curve.G2, 0, defaultSliceCap)
	}
	p.frSlicePool.New = func() interface{} {
		return make([]curve.Fr, 0, defaultSliceCap)
	}
	return p
}

// defaultPool is the package-level singleton most callers use, mirroring
// the teacher's bbs.defaultPool pattern.
var defaultPool = New()

// GetG1Slice returns a []curve.G1 with length 0 and at least the
// requested capacity, either recycled or freshly allocated.
func (p *Pool) GetG1Slice(capacity int) []curve.G1 {
	s := p.g1SlicePool.Get().([]curve.G1)
	if cap(s) < capacity {
		return make([]curve.G1, 0, capacity)
	}
	return s[:0]
}

// PutG1Slice returns a slice obtained from GetG1Slice to the pool.
func (p *Pool) PutG1Slice(s []curve.G1) {
	if s != nil {
		p.g1SlicePool.Put(s) //nolint:staticcheck // intentionally storing the slice header, not a pointer
	}
}

// GetG2Slice mirrors GetG1Slice for G2.
func (p *Pool) GetG2Slice(capacity int) []curve.G2 {
	s := p.g2SlicePool.Get().([]curve.G2)
	if cap(s) < capacity {
		return make([]curve.G2, 0, capacity)
	}
	return s[:0]
}

// PutG2Slice returns a slice obtained from GetG2Slice to the pool.
func (p *Pool) PutG2Slice(s []curve.G2) {
	if s != nil {
		p.g2SlicePool.Put(s)
	}
}

// GetFrSlice mirrors GetG1Slice for scalars.
func (p *Pool) GetFrSlice(capacity int) []curve.Fr {
	s := p.frSlicePool.Get().([]curve.Fr)
	if cap(s) < capacity {
		return make([]curve.Fr, 0, capacity)
	}
	return s[:0]
}

// PutFrSlice returns a slice obtained from GetFrSlice to the pool.
func (p *Pool) PutFrSlice(s []curve.Fr) {
	if s != nil {
		p.frSlicePool.Put(s)
	}
}

// GetG1Slice, PutG1Slice, etc. on the package-level default pool, for
// callers that don't need a dedicated Pool instance.

func GetG1Slice(capacity int) []curve.G1 { return defaultPool.GetG1Slice(capacity) }
func PutG1Slice(s []curve.G1)            { defaultPool.PutG1Slice(s) }
func GetG2Slice(capacity int) []curve.G2 { return defaultPool.GetG2Slice(capacity) }
func PutG2Slice(s []curve.G2)            { defaultPool.PutG2Slice(s) }
func GetFrSlice(capacity int) []curve.Fr { return defaultPool.GetFrSlice(capacity) }
func PutFrSlice(s []curve.Fr)            { defaultPool.PutFrSlice(s) }
