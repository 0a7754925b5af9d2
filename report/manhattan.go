package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/carbocation/qtlscan/chrpos"
	"github.com/wcharczuk/go-chart/v2"
)

var errNoMarkers = errors.New("no markers to plot")

// PlotOptions are shared by every chart.
type PlotOptions struct {
	Title  string
	Width  int
	Height int
}

func (o PlotOptions) size(defaultWidth, defaultHeight int) (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}

	return w, h
}

// ManhattanOptions configure the genome-wide plot. Alpha is the significance
// level drawn as a dashed horizontal line.
type ManhattanOptions struct {
	PlotOptions
	Alpha float64
}

// ManhattanChart builds the genome-wide plot: one point per marker at its
// cumulative position, height -log10 of its adjusted p-value, coloured by
// linkage group. Each group is labelled on the x axis at its median position.
func ManhattanChart(rows []Row, layout chrpos.Layout, opts ManhattanOptions) (chart.Chart, error) {
	if len(rows) == 0 {
		return chart.Chart{}, errNoMarkers
	}
	if opts.Alpha <= 0 || opts.Alpha >= 1 {
		return chart.Chart{}, fmt.Errorf("significance level %v is outside (0,1)", opts.Alpha)
	}

	width, height := opts.size(1400, 600)

	threshold := -math.Log10(opts.Alpha)
	yMax := threshold

	series := make([]chart.Series, 0, len(layout.Groups)+1)
	// go-chart takes the x range from the ticks when any are given, so the
	// axis ends get unlabelled ticks of their own.
	ticks := make([]chart.Tick, 0, len(layout.Groups)+2)
	ticks = append(ticks, chart.Tick{Value: 0})
	for i, g := range layout.Groups {
		xs := make([]float64, 0, len(g.Coordinates))
		ys := make([]float64, 0, len(g.Coordinates))
		for _, c := range g.Coordinates {
			if c.Index >= len(rows) {
				return chart.Chart{}, fmt.Errorf("coordinate for marker %d, but only %d rows", c.Index, len(rows))
			}
			y := rows[c.Index].NegLog10Adjusted()
			xs = append(xs, c.Cumulative)
			ys = append(ys, y)
			if y > yMax {
				yMax = y
			}
		}

		series = append(series, chart.ContinuousSeries{
			Name: g.Name,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    seriesColor(i),
			},
			XValues: xs,
			YValues: ys,
		})
		ticks = append(ticks, chart.Tick{Value: g.Median, Label: g.Name})
	}

	xMax := layout.Extent()
	if xMax <= 0 {
		xMax = 1
	}
	ticks = append(ticks, chart.Tick{Value: xMax})

	series = append(series, chart.ContinuousSeries{
		Name: fmt.Sprintf("p = %g", opts.Alpha),
		Style: chart.Style{
			StrokeColor:     thresholdRed,
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{6, 4},
		},
		XValues: []float64{0, xMax},
		YValues: []float64{threshold, threshold},
	})

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Linkage group",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "-log10(adjusted p)",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.05},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph, nil
}

// ManhattanName is the file name, without extension, of the genome-wide plot
// and of the results table.
func ManhattanName(dataset, methodTag string) string {
	return fmt.Sprintf("%s-manhattan-%s", dataset, methodTag)
}

// AddManhattan renders the genome-wide plot in every format, plus the results
// table, under ManhattanName.
func (a *Artifacts) AddManhattan(dataset, methodTag string, rows []Row, layout chrpos.Layout, opts ManhattanOptions, formats []string) error {
	graph, err := ManhattanChart(rows, layout, opts)
	if err != nil {
		return err
	}

	base := ManhattanName(dataset, methodTag)
	if err := a.AddChart(base, graph, formats); err != nil {
		return err
	}

	table, err := Export(rows)
	if err != nil {
		return err
	}

	return a.Add(base+".csv", table)
}

// AddChart renders graph in each format as base.<format>.
func (a *Artifacts) AddChart(base string, graph chart.Chart, formats []string) error {
	encoded, err := renderChart(graph, formats)
	if err != nil {
		return fmt.Errorf("%s: %w", base, err)
	}

	for _, format := range formats {
		if err := a.Add(base+"."+format, encoded[format]); err != nil {
			return err
		}
	}

	return nil
}
