package segregation

import "github.com/BenLubar/memoize"

var memoizedExact = memoize.Memoize(Exact)
var memoizedApproximate = memoize.Memoize(Approximate)

// Fast uses the chi-square approximation. If that P value is below cutoff,
// the exact P value is computed and returned instead.
func Fast(a, b, cutoff float64) (p float64) {
	p = memoizedApproximate.(func(float64, float64) float64)(a, b)

	if p < cutoff {
		return memoizedExact.(func(int64, int64) float64)(int64(a), int64(b))
	}

	return p
}

// Result is the segregation check for one marker.
type Result struct {
	Marker string
	A, B   int
	Other  int

	ChiSquare float64
	P         float64
}

// Distorted is true when the split is unlikely under 1:1 at level alpha.
func (r Result) Distorted(alpha float64) bool {
	return r.P < alpha
}

// Check builds the Result for counts a and b, with other counting calls that
// belong to neither parent.
func Check(marker string, a, b, other int, cutoff float64) Result {
	return Result{
		Marker:    marker,
		A:         a,
		B:         b,
		Other:     other,
		ChiSquare: ChiSquare(float64(a), float64(b)),
		P:         Fast(float64(a), float64(b), cutoff),
	}
}
