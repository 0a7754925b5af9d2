package genotype

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/qtlscan"
)

// How much of the input the delimiter detector gets to look at.
const delimiterSampleBytes = 64 * 1024

type Parser struct {
	CSVReaderSettings *csv.Reader
	Layout            Layout
}

func New(layout string) (*Parser, error) {
	l, exists := Layouts[layout]
	if !exists {
		return nil, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", layout, LayoutNames())
	}

	return NewWithLayout(l)
}

func NewWithLayout(layout Layout) (*Parser, error) {
	if layout.SampleSentinel == "" || layout.PhenotypeSentinel == "" {
		return nil, fmt.Errorf("layout must name both a sample and a phenotype sentinel")
	}
	if layout.SampleSentinel == layout.PhenotypeSentinel {
		return nil, fmt.Errorf("sample and phenotype sentinels must differ (both are %q)", layout.SampleSentinel)
	}
	for _, col := range []int{layout.ColName, layout.ColLinkageGroup, layout.ColPosition} {
		if col < 0 || col >= layout.FirstSampleCol {
			return nil, fmt.Errorf("layout column %d must come before the first sample column (%d)", col, layout.FirstSampleCol)
		}
	}

	n := &Parser{}
	n.Layout = layout
	n.CSVReaderSettings = &csv.Reader{}
	n.CSVReaderSettings.Comma = layout.Delimiter
	n.CSVReaderSettings.Comment = layout.Comment

	return n, nil
}

// ParseFile opens a local or gs:// path (decompressing if needed) and parses
// it. The input is closed before ParseFile returns, whether or not parsing
// succeeded.
func (p *Parser) ParseFile(ctx context.Context, path string, client *storage.Client) (*Dataset, error) {
	in, err := qtlscan.OpenInput(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	ds, err := p.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ds, nil
}

type record struct {
	line   int
	fields []string
}

// Parse reads the whole matrix. The first pass locates the two header rows
// wherever they are; the second builds markers against the already-resolved
// phenotype vector. Any error aborts the parse: no partial Dataset is
// returned.
func (p *Parser) Parse(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	comma := p.CSVReaderSettings.Comma
	if comma == 0 {
		sample := raw
		if len(sample) > delimiterSampleBytes {
			sample = sample[:delimiterSampleBytes]
		}
		comma = qtlscan.DetermineDelimiter(sample, ',')
	}

	records, err := p.readRecords(raw, comma)
	if err != nil {
		return nil, err
	}

	sampleRow, phenoRow, err := p.findHeaders(records)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	ds.SampleIDs = trimAll(sampleRow.fields[p.Layout.FirstSampleCol:])
	nSamples := len(ds.SampleIDs)
	if nSamples == 0 {
		return nil, &MalformedRowError{Row: sampleRow.line, Name: p.Layout.SampleSentinel, Reason: "no sample identifiers"}
	}

	if ds.Phenotypes, err = p.parsePhenotypes(phenoRow, ds.SampleIDs); err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	for _, rec := range records {
		if rec == sampleRow || rec == phenoRow {
			continue
		}

		m, err := p.parseMarker(rec, nSamples)
		if err != nil {
			return nil, err
		}

		if prior, exists := seen[m.Name]; exists {
			return nil, &MalformedRowError{Row: rec.line, Name: m.Name, Reason: fmt.Sprintf("duplicate marker name (first seen on row %d)", prior)}
		}
		seen[m.Name] = rec.line

		ds.Markers = append(ds.Markers, m)
	}

	return ds, nil
}

func (p *Parser) readRecords(raw []byte, comma rune) ([]*record, error) {
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = comma
	cr.Comment = p.CSVReaderSettings.Comment
	cr.LazyQuotes = p.CSVReaderSettings.LazyQuotes

	// Field counts are validated against the header, not against whatever the
	// first row happens to be.
	cr.FieldsPerRecord = -1

	var out []*record
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		line, _ := cr.FieldPos(0)
		out = append(out, &record{line: line, fields: fields})
	}

	return out, nil
}

func (p *Parser) findHeaders(records []*record) (sampleRow, phenoRow *record, err error) {
	for _, rec := range records {
		if len(rec.fields) <= p.Layout.ColName {
			return nil, nil, &MalformedRowError{Row: rec.line, Reason: fmt.Sprintf("only %d fields", len(rec.fields))}
		}

		switch strings.TrimSpace(rec.fields[p.Layout.ColName]) {
		case p.Layout.SampleSentinel:
			if sampleRow != nil {
				return nil, nil, &MalformedRowError{Row: rec.line, Name: p.Layout.SampleSentinel, Reason: fmt.Sprintf("second sample-id row (first on row %d)", sampleRow.line)}
			}
			if len(rec.fields) < p.Layout.FirstSampleCol {
				return nil, nil, &MalformedRowError{Row: rec.line, Name: p.Layout.SampleSentinel, Reason: fmt.Sprintf("only %d fields", len(rec.fields))}
			}
			sampleRow = rec
		case p.Layout.PhenotypeSentinel:
			if phenoRow != nil {
				return nil, nil, &MalformedRowError{Row: rec.line, Name: p.Layout.PhenotypeSentinel, Reason: fmt.Sprintf("second phenotype row (first on row %d)", phenoRow.line)}
			}
			phenoRow = rec
		}
	}

	if sampleRow == nil {
		return nil, nil, &MissingHeaderError{Sentinel: p.Layout.SampleSentinel}
	}
	if phenoRow == nil {
		return nil, nil, &MissingHeaderError{Sentinel: p.Layout.PhenotypeSentinel}
	}

	return sampleRow, phenoRow, nil
}

func (p *Parser) parsePhenotypes(rec *record, sampleIDs []string) ([]float64, error) {
	want := p.Layout.FirstSampleCol + len(sampleIDs)
	if len(rec.fields) != want {
		return nil, &MalformedRowError{Row: rec.line, Name: p.Layout.PhenotypeSentinel, Reason: fmt.Sprintf("%d phenotype values for %d samples", len(rec.fields)-p.Layout.FirstSampleCol, len(sampleIDs))}
	}

	out := make([]float64, 0, len(sampleIDs))
	for i, v := range rec.fields[p.Layout.FirstSampleCol:] {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &InvalidPhenotypeError{Row: rec.line, Column: p.Layout.FirstSampleCol + i + 1, SampleID: sampleIDs[i], Value: v}
		}
		out = append(out, f)
	}

	return out, nil
}

func (p *Parser) parseMarker(rec *record, nSamples int) (Marker, error) {
	m := Marker{Row: rec.line}

	if len(rec.fields) > p.Layout.ColName {
		m.Name = strings.TrimSpace(rec.fields[p.Layout.ColName])
	}

	if want := p.Layout.FirstSampleCol + nSamples; len(rec.fields) != want {
		return m, &MalformedRowError{Row: rec.line, Name: m.Name, Reason: fmt.Sprintf("%d genotype calls for %d samples", len(rec.fields)-p.Layout.FirstSampleCol, nSamples)}
	}

	if m.Name == "" {
		return m, &MalformedRowError{Row: rec.line, Reason: "empty marker name"}
	}

	m.LinkageGroup = strings.TrimSpace(rec.fields[p.Layout.ColLinkageGroup])

	pos, err := strconv.ParseFloat(strings.TrimSpace(rec.fields[p.Layout.ColPosition]), 64)
	if err != nil {
		return m, &MalformedRowError{Row: rec.line, Name: m.Name, Reason: fmt.Sprintf("map position %q is not a number", rec.fields[p.Layout.ColPosition])}
	}
	if pos < 0 || math.IsNaN(pos) || math.IsInf(pos, 0) {
		return m, &MalformedRowError{Row: rec.line, Name: m.Name, Reason: fmt.Sprintf("map position %v is not a non-negative number", pos)}
	}
	m.Position = pos

	m.Genotypes = trimAll(rec.fields[p.Layout.FirstSampleCol:])

	return m, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(v)
	}

	return out
}
