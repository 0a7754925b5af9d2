package association

import "fmt"

// InsufficientGroupSizeError means one of the two parental classes has too
// few observations at a marker for the test to be defined.
type InsufficientGroupSizeError struct {
	Marker string
	Row    int
	Symbol string
	Count  int
}

func (e *InsufficientGroupSizeError) Error() string {
	return fmt.Sprintf("marker %s (row %d): parental class %q has %d observations, too few to test", e.Marker, e.Row, e.Symbol, e.Count)
}

// DegenerateTestError means both parental classes have zero variance and the
// same mean, so the t statistic is 0/0.
type DegenerateTestError struct {
	Marker string
	Row    int
	Mean   float64
}

func (e *DegenerateTestError) Error() string {
	return fmt.Sprintf("marker %s (row %d): both parental classes are constant at %g; the t-test is undefined", e.Marker, e.Row, e.Mean)
}
