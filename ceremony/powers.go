package ceremony

import (
	"github.com/asv/mpc/curve"
	"github.com/asv/mpc/internal/objpool"
)

// powersOf returns [x^0, x^1, ..., x^(n-1)], drawn from objpool since
// every call site feeds this vector straight into a ScalarMulVector call
// and discards it once that returns; callers must PutFrSlice it back.
func powersOf(x curve.Fr, n int) []curve.Fr {
	out := objpool.GetFrSlice(n)[:n]
	out[0] = curve.FrFromUint64(1)
	for i := 1; i < n; i++ {
		out[i] = out[i-1].Mul(x)
	}
	return out
}

// constVec returns a length-n vector with every entry equal to x, for
// scaling every position of a query vector by the same per-player
// secret (spec §4.4's A/B/C/K rescaling has no per-index component).
// Like powersOf, the result is pool-backed scratch the caller must
// return with objpool.PutFrSlice once consumed.
func constVec(x curve.Fr, n int) []curve.Fr {
	out := objpool.GetFrSlice(n)[:n]
	for i := range out {
		out[i] = x
	}
	return out
}
