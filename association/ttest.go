package association

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	errTooFewObservations = errors.New("too few observations for a t-test")
	errZeroVariance       = errors.New("both groups are constant and equal")
)

// TTestResult is the outcome of a two-sided, two-sample t-test.
type TTestResult struct {
	T     float64
	P     float64
	DF    float64
	MeanA float64
	MeanB float64
}

// TTest compares the means of a and b. With welch == false this is the
// pooled-variance Student test (scipy's ttest_ind default); otherwise the
// Welch-Satterthwaite unequal-variance test. The statistic has the sign of
// mean(a) - mean(b). Neither input is modified.
//
// When both groups are constant but their means differ, T is +/-Inf and P is
// 0. When they are constant and equal the test is undefined.
func TTest(a, b []float64, welch bool) (TTestResult, error) {
	na, nb := float64(len(a)), float64(len(b))
	if len(a) == 0 || len(b) == 0 {
		return TTestResult{}, errTooFewObservations
	}

	// Summation order is fixed so that the result does not depend on the order
	// in which observations were collected.
	ma, ssa := sortedMeanSumSquares(a)
	mb, ssb := sortedMeanSumSquares(b)

	out := TTestResult{MeanA: ma, MeanB: mb}

	var se2 float64
	if welch {
		if len(a) < 2 || len(b) < 2 {
			return out, errTooFewObservations
		}
		va, vb := ssa/(na-1)/na, ssb/(nb-1)/nb
		se2 = va + vb
		if se2 > 0 {
			out.DF = se2 * se2 / (va*va/(na-1) + vb*vb/(nb-1))
		} else {
			out.DF = na + nb - 2
		}
	} else {
		out.DF = na + nb - 2
		if out.DF < 1 {
			return out, errTooFewObservations
		}
		pooled := (ssa + ssb) / out.DF
		se2 = pooled * (1/na + 1/nb)
	}

	diff := ma - mb
	if se2 == 0 {
		if diff == 0 {
			return out, errZeroVariance
		}
		out.T = math.Inf(1)
		if diff < 0 {
			out.T = math.Inf(-1)
		}
		out.P = 0
		return out, nil
	}

	out.T = diff / math.Sqrt(se2)
	out.P = TwoSidedP(out.T, out.DF)

	return out, nil
}

// TwoSidedP is the probability, under a Student's t distribution with df
// degrees of freedom, of a statistic at least as extreme as t.
func TwoSidedP(t, df float64) float64 {
	if math.IsInf(t, 0) {
		return 0
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	if p > 1 {
		p = 1
	}

	return p
}

func sortedMeanSumSquares(x []float64) (mean, sumSquares float64) {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0], 0
	}

	mean, variance := stat.MeanVariance(sorted, nil)

	return mean, variance * float64(len(sorted)-1)
}
