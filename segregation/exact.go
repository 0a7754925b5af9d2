package segregation

import (
	"math/big"

	"github.com/BenLubar/memoize"
)

var memoizedTail = memoize.Memoize(tail)
var memoizedBinomial = memoize.Memoize(binomial)

// Exact is the two-sided exact binomial P value for a:b against 1:1. Because
// the null is symmetric, it is twice the probability of a split at least as
// uneven as the smaller class, capped at 1. Exact is safe to call from
// concurrent goroutines.
func Exact(a, b int64) float64 {
	if a == b {
		return 1
	}

	if a > b {
		a, b = b, a
	}

	p := 2 * memoizedTail.(func(int64, int64) float64)(a+b, a)
	if p > 1 {
		return 1
	}

	return p
}

// tail is P(X <= k) for X ~ Binomial(n, 1/2).
func tail(n, k int64) float64 {
	sum := new(big.Int)
	for i := int64(0); i <= k; i++ {
		sum.Add(sum, memoizedBinomial.(func(int64, int64) *big.Int)(n, i))
	}

	denom := new(big.Int).Lsh(big.NewInt(1), uint(n))

	out, _ := new(big.Rat).SetFrac(sum, denom).Float64()

	return out
}

// binomial must not have its result modified by callers: it is shared through
// the memoizer.
func binomial(n, k int64) *big.Int {
	return new(big.Int).Binomial(n, k)
}
