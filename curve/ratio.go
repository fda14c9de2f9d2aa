package curve

import "errors"

// SameRatio reports whether (a, b) and (c, d) are in the same ratio, i.e.
// there exists x with b = x*a and d = x*c, checked via a single pairing
// product e(a, d) * e(b, c)^-1 == 1 rather than two separate pairings and
// a GT comparison. Negating one side before the multi-pairing call turns
// the equality e(a,d) == e(b,c) into the single product-equals-one form,
// the same trick the teacher uses to validate its proof relation in one
// multi-pairing call instead of two.
//
// This is the verification kernel's universal primitive: every transform
// check across all three stages reduces to one or more calls to this
// function (spec §4.2).
func SameRatio(a, b G1, c, d G2) (bool, error) {
	negD := d.Neg()
	product, err := MultiPairing([]G1{a, b}, []G2{negD, c})
	if err != nil {
		return false, err
	}
	return product.IsOne(), nil
}

// SameRatioG2First is SameRatio with the roles of G1 and G2 swapped: it
// checks (a, b) in G2 against (c, d) in G1, needed because some of the
// ceremony's transform checks pair a G2 power-of-tau against a G1 query
// element rather than the other way around.
func SameRatioG2First(a, b G2, c, d G1) (bool, error) {
	negB := b.Neg()
	product, err := MultiPairing([]G1{d, c}, []G2{a, negB})
	if err != nil {
		return false, err
	}
	return product.IsOne(), nil
}

// BatchSameRatio checks n independent same-ratio statements sharing a
// single (c, d) denominator pair in one multi-pairing call by folding
// each numerator pair (a_i, b_i) together with independent random
// coefficients r_i, so that a single forged statement has negligible
// probability of surviving the random linear combination. This is the
// batched variant spec §4.2 calls for when verifying an entire query
// vector against one fixed ratio instead of one pairing check per entry.
func BatchSameRatio(as, bs []G1, c, d G2) (bool, error) {
	if len(as) != len(bs) {
		return false, errMismatchedBatch
	}
	n := len(as)
	if n == 0 {
		return true, nil
	}

	coeffs := make([]Fr, n)
	for i := range coeffs {
		r, err := RandomNonzeroFr()
		if err != nil {
			return false, err
		}
		coeffs[i] = r
	}

	var foldedA, foldedB G1
	foldedA = as[0].ScalarMul(coeffs[0])
	foldedB = bs[0].ScalarMul(coeffs[0])
	for i := 1; i < n; i++ {
		foldedA = foldedA.Add(as[i].ScalarMul(coeffs[i]))
		foldedB = foldedB.Add(bs[i].ScalarMul(coeffs[i]))
	}

	return SameRatio(foldedA, foldedB, c, d)
}

// BatchSameRatioG2First mirrors BatchSameRatio for a G2-valued vector
// checked against a G1 denominator pair.
func BatchSameRatioG2First(as, bs []G2, c, d G1) (bool, error) {
	if len(as) != len(bs) {
		return false, errMismatchedBatch
	}
	n := len(as)
	if n == 0 {
		return true, nil
	}

	coeffs := make([]Fr, n)
	for i := range coeffs {
		r, err := RandomNonzeroFr()
		if err != nil {
			return false, err
		}
		coeffs[i] = r
	}

	foldedA := as[0].ScalarMul(coeffs[0])
	foldedB := bs[0].ScalarMul(coeffs[0])
	for i := 1; i < n; i++ {
		foldedA = foldedA.Add(as[i].ScalarMul(coeffs[i]))
		foldedB = foldedB.Add(bs[i].ScalarMul(coeffs[i]))
	}

	return SameRatioG2First(foldedA, foldedB, c, d)
}

var errMismatchedBatch = errors.New("curve: mismatched batch same-ratio input lengths")
