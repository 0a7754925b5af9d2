package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/pfx"
	"github.com/carbocation/qtlscan/association"
	"github.com/carbocation/qtlscan/chrpos"
	"github.com/carbocation/qtlscan/correction"
	"github.com/carbocation/qtlscan/genotype"
	"github.com/carbocation/qtlscan/report"
	"github.com/carbocation/qtlscan/segregation"
)

// How many of the last result rows are echoed to the log.
const tailRows = 5

func run(ctx context.Context, cfg Config) error {
	// Initialize the Google Storage client only if we're pointing to Google
	// Storage paths.
	var client *storage.Client
	if strings.HasPrefix(cfg.Input, "gs://") {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
	}

	parser, err := genotype.NewWithLayout(cfg.ParserLayout())
	if err != nil {
		return err
	}

	ds, err := parser.ParseFile(ctx, cfg.Input, client)
	if err != nil {
		return err
	}
	log.Printf("Parsed %d markers across %d samples from %s\n", len(ds.Markers), ds.SampleCount(), cfg.Input)

	artifacts, err := scan(ctx, cfg, ds, os.Stderr)
	if err != nil {
		return err
	}

	if err := artifacts.WriteAll(cfg.OutputDir); err != nil {
		return err
	}
	log.Printf("Wrote %d files to %s\n", artifacts.Len(), cfg.OutputDir)

	return nil
}

// scan runs every stage after parsing and renders all outputs in memory.
// Nothing is written to disk. Diagnostics that are not log lines go to diag.
func scan(ctx context.Context, cfg Config, ds *genotype.Dataset, diag io.Writer) (*report.Artifacts, error) {
	if len(ds.Markers) == 0 {
		return nil, fmt.Errorf("%s: no markers found", cfg.Input)
	}

	tester := association.Tester{
		Parents: association.Parents{A: cfg.ParentA, B: cfg.ParentB},
		Welch:   cfg.Welch,
		Workers: cfg.Workers,
	}
	tested, err := tester.Run(ctx, ds)
	if err != nil {
		return nil, err
	}
	log.Println("number of tests:", len(tested))

	rawP := association.PValues(tested)
	if err := printHistogram(diag, rawP); err != nil {
		return nil, err
	}

	// Correction sees every raw p-value at once, keyed by marker.
	var keys correction.Keyed
	for _, v := range tested {
		keys.Add(v.Name, v.PValue)
	}
	adjusted, err := correction.Apply(keys, cfg.Method)
	if err != nil {
		return nil, err
	}

	entries := make([]chrpos.Entry, 0, len(tested))
	for _, v := range tested {
		entries = append(entries, chrpos.Entry{LinkageGroup: v.LinkageGroup, Position: v.Position})
	}
	layout := chrpos.Cumulative(entries, chrpos.GroupOrders[cfg.GroupOrder])

	rows, err := report.Rows(tested, adjusted, layout)
	if err != nil {
		return nil, err
	}
	logSummary(rows, cfg.Alpha)

	artifacts := report.NewArtifacts()

	mopts := report.ManhattanOptions{
		PlotOptions: report.PlotOptions{
			Title:  cfg.Name,
			Width:  cfg.Width,
			Height: cfg.Height,
		},
		Alpha: cfg.Alpha,
	}
	if err := artifacts.AddManhattan(cfg.Name, correction.Tag(cfg.Method), rows, layout, mopts, cfg.Formats); err != nil {
		return nil, err
	}

	bopts := report.BoxplotOptions{Order: cfg.BoxplotOrder}
	for _, marker := range cfg.BoxplotMarkers {
		i, exists := ds.Lookup(marker)
		if !exists {
			log.Printf("Boxplot requested for %s, but no such marker is in %s. Skipping.\n", marker, cfg.Input)
			continue
		}

		if err := artifacts.AddBoxplot(marker, ds.Groups(i), adjusted.ByName[marker], bopts, cfg.Formats); err != nil {
			return nil, err
		}
	}

	if cfg.Segregation {
		table, err := checkSegregation(ds, cfg)
		if err != nil {
			return nil, err
		}
		if err := artifacts.Add(cfg.Name+"-segregation.csv", table); err != nil {
			return nil, err
		}
	}

	return artifacts, nil
}

func checkSegregation(ds *genotype.Dataset, cfg Config) ([]byte, error) {
	results := make([]segregation.Result, 0, len(ds.Markers))
	distorted := 0
	for i, m := range ds.Markers {
		counts := ds.Counts(i)
		a, b := counts[cfg.ParentA], counts[cfg.ParentB]
		other := len(m.Genotypes) - a - b

		r := segregation.Check(m.Name, a, b, other, cfg.SegregationCutoff)
		if r.Distorted(cfg.SegregationCutoff) {
			distorted++
		}
		results = append(results, r)
	}
	log.Printf("%d of %d markers have segregation P < %g\n", distorted, len(results), cfg.SegregationCutoff)

	return report.SegregationExport(results)
}

func printHistogram(w io.Writer, pvalues []float64) error {
	fmt.Fprintln(w, "Raw p-value distribution:")
	hist := histogram.Hist(10, pvalues)
	if err := histogram.Fprint(w, hist, histogram.Linear(40)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func logSummary(rows []report.Row, alpha float64) {
	significant := 0
	for _, r := range rows {
		if r.AdjustedP < alpha {
			significant++
		}
	}
	log.Printf("%d of %d markers have adjusted p < %g\n", significant, len(rows), alpha)

	start := len(rows) - tailRows
	if start < 0 {
		start = 0
	}
	for _, r := range rows[start:] {
		log.Printf("%s\t%s\t%g\tt=%.4g\tp=%.3e\tpadj=%.3e\tpos=%g\n", r.Marker, r.LinkageGroup, r.Position, r.Statistic, r.RawP, r.AdjustedP, r.Cumulative)
	}
}
