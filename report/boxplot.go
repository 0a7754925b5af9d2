package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DefaultBoxOrder puts J on the left and C on the right.
var DefaultBoxOrder = []string{"J", "C"}

const (
	boxHalfWidth = 0.3
	jitterWidth  = 0.3
	tukeyFence   = 1.5
)

// BoxStats summarizes one class for a box-and-whisker plot. Whiskers reach
// the most extreme observations within 1.5 IQR of the box.
type BoxStats struct {
	N          int
	Q1, Median float64
	Q3         float64
	Lower      float64
	Upper      float64
}

// Summarize computes BoxStats for values, which it does not modify.
func Summarize(values []float64) (BoxStats, error) {
	out := BoxStats{N: len(values)}
	if len(values) == 0 {
		return out, fmt.Errorf("cannot summarize an empty class")
	}

	if len(values) == 1 {
		v := values[0]
		out.Q1, out.Median, out.Q3, out.Lower, out.Upper = v, v, v, v, v
		return out, nil
	}

	q, err := stats.Quartile(values)
	if err != nil {
		return out, pfx.Err(err)
	}
	out.Q1, out.Median, out.Q3 = q.Q1, q.Q2, q.Q3

	iqr := q.Q3 - q.Q1
	lowFence, highFence := q.Q1-tukeyFence*iqr, q.Q3+tukeyFence*iqr

	var inside []float64
	for _, v := range values {
		if v >= lowFence && v <= highFence {
			inside = append(inside, v)
		}
	}

	if out.Lower, err = stats.Min(inside); err != nil {
		return out, pfx.Err(err)
	}
	if out.Upper, err = stats.Max(inside); err != nil {
		return out, pfx.Err(err)
	}

	return out, nil
}

// BoxplotOptions configure a per-marker plot. Order lists the classes from
// left to right; classes not listed are not drawn.
type BoxplotOptions struct {
	PlotOptions
	Order []string
}

// BoxplotTitle is "<marker> Padj: <p in scientific notation>".
func BoxplotTitle(marker string, adjusted float64) string {
	return fmt.Sprintf("%s Padj: %.2e", marker, adjusted)
}

// BoxplotChart draws one box per class in opts.Order with every observation
// overlaid as a grey point. groups is keyed by genotype symbol, as returned
// by genotype.Dataset.Groups.
func BoxplotChart(marker string, groups map[string][]float64, adjusted float64, opts BoxplotOptions) (chart.Chart, error) {
	order := opts.Order
	if len(order) == 0 {
		order = DefaultBoxOrder
	}
	width, height := opts.size(500, 500)

	title := opts.Title
	if title == "" {
		title = BoxplotTitle(marker, adjusted)
	}

	var series []chart.Series
	var ticks []chart.Tick
	yMin, yMax := math.Inf(1), math.Inf(-1)

	for i, symbol := range order {
		x := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: x, Label: symbol})

		values := groups[symbol]
		if len(values) == 0 {
			continue
		}

		box, err := Summarize(values)
		if err != nil {
			return chart.Chart{}, fmt.Errorf("%s class %s: %w", marker, symbol, err)
		}
		series = append(series, boxSeries(x, box, seriesColor(i))...)
		series = append(series, pointSeries(x, values))

		for _, v := range values {
			yMin = math.Min(yMin, v)
			yMax = math.Max(yMax, v)
		}
	}

	if len(series) == 0 {
		return chart.Chart{}, fmt.Errorf("%s: none of the classes %v have observations", marker, order)
	}

	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(yMax)*0.05, 1)
	}

	return chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Parent",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(order)) + 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Phenotype",
			Range: &chart.ContinuousRange{Min: yMin - pad, Max: yMax + pad},
		},
		Series: series,
	}, nil
}

func segment(x0, y0, x1, y1 float64, style chart.Style) chart.Series {
	return chart.ContinuousSeries{
		Style:   style,
		XValues: []float64{x0, x1},
		YValues: []float64{y0, y1},
	}
}

// boxSeries outlines the box, median and whiskers as line segments. Boxes are
// not filled: go-chart fills continuous series down to the axis.
func boxSeries(x float64, box BoxStats, color drawing.Color) []chart.Series {
	outline := chart.Style{StrokeColor: color, StrokeWidth: 1.5}
	whisker := chart.Style{StrokeColor: boxStroke, StrokeWidth: 1}
	median := chart.Style{StrokeColor: medianStroke, StrokeWidth: 2.5}

	l, r := x-boxHalfWidth, x+boxHalfWidth
	capL, capR := x-boxHalfWidth/2, x+boxHalfWidth/2

	return []chart.Series{
		chart.ContinuousSeries{
			Style:   outline,
			XValues: []float64{l, r, r, l, l},
			YValues: []float64{box.Q1, box.Q1, box.Q3, box.Q3, box.Q1},
		},
		segment(l, box.Median, r, box.Median, median),
		segment(x, box.Q3, x, box.Upper, whisker),
		segment(x, box.Q1, x, box.Lower, whisker),
		segment(capL, box.Upper, capR, box.Upper, whisker),
		segment(capL, box.Lower, capR, box.Lower, whisker),
	}
}

// pointSeries scatters values around x. Offsets follow a golden-ratio
// sequence over the sorted values, so the same data always lands in the same
// place.
func pointSeries(x float64, values []float64) chart.Series {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	xs := make([]float64, len(sorted))
	for i := range sorted {
		frac := math.Mod(float64(i)*0.6180339887498949, 1)
		xs[i] = x + (frac-0.5)*jitterWidth
	}

	return chart.ContinuousSeries{
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
			DotColor:    pointGrey,
		},
		XValues: xs,
		YValues: sorted,
	}
}

// AddBoxplot renders the plot for one marker as <marker>.<format>.
func (a *Artifacts) AddBoxplot(marker string, groups map[string][]float64, adjusted float64, opts BoxplotOptions, formats []string) error {
	graph, err := BoxplotChart(marker, groups, adjusted, opts)
	if err != nil {
		return err
	}

	return a.AddChart(marker, graph, formats)
}
