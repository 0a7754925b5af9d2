package association

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/carbocation/qtlscan/genotype"
	"golang.org/x/sync/errgroup"
)

// Parents names the two genotype symbols that are compared. Any other symbol
// (missing calls, heterozygotes) stays in the data but is not tested.
type Parents struct {
	A string
	B string
}

// DefaultParents compares C against J.
var DefaultParents = Parents{A: "C", B: "J"}

// TestedMarker is a marker after its association test has been run. Every
// field is populated.
type TestedMarker struct {
	genotype.Marker

	Statistic float64
	PValue    float64
	DF        float64

	NA, NB       int
	MeanA, MeanB float64
}

type Tester struct {
	Parents Parents
	Welch   bool

	// Workers bounds how many markers are tested at once. Values below 1 mean
	// runtime.NumCPU().
	Workers int
}

// TestMarker runs the test for marker i of ds.
func (t Tester) TestMarker(ds *genotype.Dataset, i int) (TestedMarker, error) {
	m := ds.Markers[i]
	out := TestedMarker{Marker: m}

	var a, b []float64
	for j, symbol := range m.Genotypes {
		switch symbol {
		case t.Parents.A:
			a = append(a, ds.Phenotypes[j])
		case t.Parents.B:
			b = append(b, ds.Phenotypes[j])
		}
	}
	out.NA, out.NB = len(a), len(b)

	res, err := TTest(a, b, t.Welch)
	switch {
	case errors.Is(err, errTooFewObservations):
		symbol, count := t.Parents.A, len(a)
		if len(b) < len(a) {
			symbol, count = t.Parents.B, len(b)
		}
		return out, &InsufficientGroupSizeError{Marker: m.Name, Row: m.Row, Symbol: symbol, Count: count}
	case errors.Is(err, errZeroVariance):
		return out, &DegenerateTestError{Marker: m.Name, Row: m.Row, Mean: res.MeanA}
	case err != nil:
		return out, fmt.Errorf("%s: %w", m.Name, err)
	}

	out.Statistic = res.T
	out.PValue = res.P
	out.DF = res.DF
	out.MeanA = res.MeanA
	out.MeanB = res.MeanB

	return out, nil
}

// Run tests every marker of ds. Markers are independent, so they are spread
// over Workers goroutines; each goroutine only reads the shared dataset and
// writes its own slot of the output. Run returns only after every marker has
// been tested, so the output is complete before anyone corrects it.
//
// If any marker cannot be tested, the error for the earliest such marker (in
// file order) is returned along with a nil slice.
func (t Tester) Run(ctx context.Context, ds *genotype.Dataset) ([]TestedMarker, error) {
	workers := t.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	out := make([]TestedMarker, len(ds.Markers))
	errs := make([]error, len(ds.Markers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range ds.Markers {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			// A failing marker does not cancel the others: we want to report
			// the first failure in file order, not whichever finished first.
			out[i], errs[i] = t.TestMarker(ds, i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// PValues returns the raw p-values in marker order.
func PValues(tested []TestedMarker) []float64 {
	out := make([]float64, len(tested))
	for i, v := range tested {
		out[i] = v.PValue
	}

	return out
}
