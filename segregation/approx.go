// Package segregation tests whether the two parental genotype classes at a
// marker occur in the 1:1 ratio expected of a recombinant inbred population.
// Strong distortion usually points at a genotyping problem rather than
// biology.
package segregation

import (
	"gonum.org/v1/gonum/stat/distuv"
)

var chiSquare1 = distuv.ChiSquared{K: 1}

// Approximate is the chi-square goodness-of-fit P value (1 degree of freedom)
// for a:b against 1:1.
func Approximate(a, b float64) float64 {
	if a+b == 0 {
		return 1
	}

	// Survival keeps precision in the far tail, where 1-CDF would round to 0.
	return chiSquare1.Survival(ChiSquare(a, b))
}

// ChiSquare compares observed class counts with an even split. With n = a+b
// and n/2 expected in each class this reduces to (a-b)^2 / n.
func ChiSquare(a, b float64) float64 {
	n := a + b
	if n == 0 {
		return 0
	}

	return (a - b) * (a - b) / n
}
