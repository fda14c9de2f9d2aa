package curve

import (
	"context"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/asv/mpc/internal/multicore"
)

// directMSMThreshold mirrors the teacher's pkg/crypto/msm.go dispatch: below
// this many points a plain sequential accumulation beats the overhead of
// spinning up multicore.Run's goroutines.
const directMSMThreshold = 16

// ScalarMulVector returns points[i]*scalars[i] for every i, computed in
// parallel via internal/multicore once the vector is large enough. This is
// the primitive every stage transform uses to apply a player's secret to
// an entire powers-of-tau or query vector in one pass (spec §4.3/§4.4).
func ScalarMulVector(ctx context.Context, points []G1, scalars []Fr) ([]G1, error) {
	if len(points) != len(scalars) {
		return nil, errMismatchedBatch
	}
	out := make([]G1, len(points))
	if len(points) < directMSMThreshold {
		for i := range points {
			out[i] = points[i].ScalarMul(scalars[i])
		}
		return out, nil
	}

	err := multicore.Run(ctx, len(points), multicore.DefaultWorkers, func(_ context.Context, start, end int) error {
		for i := start; i < end; i++ {
			out[i] = points[i].ScalarMul(scalars[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ScalarMulVectorG2 mirrors ScalarMulVector for G2 vectors (the beta
// query's G2 half, for instance).
func ScalarMulVectorG2(ctx context.Context, points []G2, scalars []Fr) ([]G2, error) {
	if len(points) != len(scalars) {
		return nil, errMismatchedBatch
	}
	out := make([]G2, len(points))
	if len(points) < directMSMThreshold {
		for i := range points {
			out[i] = points[i].ScalarMul(scalars[i])
		}
		return out, nil
	}

	err := multicore.Run(ctx, len(points), multicore.DefaultWorkers, func(_ context.Context, start, end int) error {
		for i := start; i < end; i++ {
			out[i] = points[i].ScalarMul(scalars[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MultiScalarMulG1 computes Σ scalars[i]*points[i], delegating to
// gnark-crypto's native multi-exponentiation for the reduction itself —
// the same API the teacher's pkg/crypto/msm.go and pkg/crypto/simd call
// through MultiExp. It has no size threshold and does not go through
// multicore.Run; only MultiExp's task count comes from
// multicore.DefaultWorkers.
func MultiScalarMulG1(points []G1, scalars []Fr) (G1, error) {
	if len(points) != len(scalars) {
		return G1{}, errMismatchedBatch
	}
	if len(points) == 0 {
		var zero G1
		return zero, nil
	}

	affines := make([]bn254.G1Affine, len(points))
	scalarEls := make([]fr.Element, len(scalars))
	for i := range points {
		affines[i] = points[i].p
		scalarEls[i] = scalars[i].el
	}

	var acc bn254.G1Jac
	if _, err := acc.MultiExp(affines, scalarEls, ecc.MultiExpConfig{NbTasks: multicore.DefaultWorkers}); err != nil {
		return G1{}, err
	}
	var out bn254.G1Affine
	out.FromJacobian(&acc)
	return G1{out}, nil
}
