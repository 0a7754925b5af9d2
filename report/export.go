package report

import (
	"bytes"

	"github.com/carbocation/pfx"
	"github.com/carbocation/qtlscan/segregation"
	"github.com/gocarina/gocsv"
)

type exportRow struct {
	Marker           string  `csv:"marker"`
	LinkageGroup     string  `csv:"linkage_group"`
	MapPosition      float64 `csv:"map_position"`
	RawPValue        float64 `csv:"raw_p_value"`
	TestStatistic    float64 `csv:"test_statistic"`
	AdjustedPValue   float64 `csv:"adjusted_p_value"`
	NegLog10Adjusted float64 `csv:"neg_log10_adjusted"`
	Cumulative       float64 `csv:"cumulative_position"`
}

type segregationRow struct {
	Marker    string  `csv:"marker"`
	CountA    int     `csv:"count_a"`
	CountB    int     `csv:"count_b"`
	Other     int     `csv:"count_other"`
	ChiSquare float64 `csv:"chi_square"`
	P         float64 `csv:"p_value"`
}

// Export writes the results table as CSV, one line per marker in input
// order. The same rows always produce the same bytes.
func Export(rows []Row) ([]byte, error) {
	out := make([]*exportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &exportRow{
			Marker:           r.Marker,
			LinkageGroup:     r.LinkageGroup,
			MapPosition:      r.Position,
			RawPValue:        r.RawP,
			TestStatistic:    r.Statistic,
			AdjustedPValue:   r.AdjustedP,
			NegLog10Adjusted: r.NegLog10Adjusted(),
			Cumulative:       r.Cumulative,
		})
	}

	return marshal(&out)
}

// SegregationExport writes the per-marker segregation check as CSV.
func SegregationExport(results []segregation.Result) ([]byte, error) {
	out := make([]*segregationRow, 0, len(results))
	for _, r := range results {
		out = append(out, &segregationRow{
			Marker:    r.Marker,
			CountA:    r.A,
			CountB:    r.B,
			Other:     r.Other,
			ChiSquare: r.ChiSquare,
			P:         r.P,
		})
	}

	return marshal(&out)
}

func marshal(in interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := gocsv.Marshal(in, buf); err != nil {
		return nil, pfx.Err(err)
	}

	return buf.Bytes(), nil
}
