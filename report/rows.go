package report

import (
	"fmt"
	"math"

	"github.com/carbocation/qtlscan/association"
	"github.com/carbocation/qtlscan/chrpos"
	"github.com/carbocation/qtlscan/correction"
)

// DisplayFloor is added to adjusted p-values before taking -log10, so that a
// p-value of 0 plots at 10 rather than at infinity. It affects display only.
const DisplayFloor = 1e-10

// Row is one marker's complete result, the unit every renderer consumes.
type Row struct {
	Marker       string
	LinkageGroup string
	Position     float64
	Statistic    float64
	RawP         float64
	AdjustedP    float64
	Cumulative   float64
}

// NegLog10Adjusted is the plotted height of the marker.
func (r Row) NegLog10Adjusted() float64 {
	return NegLog10(r.AdjustedP)
}

func NegLog10(p float64) float64 {
	return -math.Log10(p + DisplayFloor)
}

// Rows joins the three phases of the scan by marker index. All three inputs
// must describe the same markers in the same order.
func Rows(tested []association.TestedMarker, adjusted correction.Adjusted, layout chrpos.Layout) ([]Row, error) {
	cumulative := layout.ByIndex()
	if len(adjusted.Adjusted) != len(tested) {
		return nil, &correction.CorrectionInputMismatchError{Want: len(tested), Got: len(adjusted.Adjusted)}
	}
	if len(cumulative) != len(tested) {
		return nil, fmt.Errorf("coordinate layout has %d markers, expected %d", len(cumulative), len(tested))
	}

	out := make([]Row, len(tested))
	for i, v := range tested {
		out[i] = Row{
			Marker:       v.Name,
			LinkageGroup: v.LinkageGroup,
			Position:     v.Position,
			Statistic:    v.Statistic,
			RawP:         v.PValue,
			AdjustedP:    adjusted.Adjusted[i],
			Cumulative:   cumulative[i],
		}
	}

	return out, nil
}
