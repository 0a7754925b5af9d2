package genotype

import (
	"sort"
	"strings"
)

// Layout describes where things live in a genotype-by-phenotype matrix. Two
// header rows are recognized by the value in their ColName field; every other
// row is a marker.
type Layout struct {
	// Delimiter separates fields. If zero, it is detected from the data.
	Delimiter rune
	Comment   rune

	SampleSentinel    string
	PhenotypeSentinel string

	ColName         int
	ColLinkageGroup int
	ColPosition     int
	FirstSampleCol  int
}

var Layouts = map[string]Layout{
	"default": {
		Delimiter:         ',',
		Comment:           '#',
		SampleSentinel:    "marker",
		PhenotypeSentinel: "Pheno",
		ColName:           0,
		ColLinkageGroup:   1,
		ColPosition:       2,
		FirstSampleCol:    3,
	},
	"tsv": {
		Delimiter:         '\t',
		Comment:           '#',
		SampleSentinel:    "marker",
		PhenotypeSentinel: "Pheno",
		ColName:           0,
		ColLinkageGroup:   1,
		ColPosition:       2,
		FirstSampleCol:    3,
	},
	"auto": {
		Comment:           '#',
		SampleSentinel:    "marker",
		PhenotypeSentinel: "Pheno",
		ColName:           0,
		ColLinkageGroup:   1,
		ColPosition:       2,
		FirstSampleCol:    3,
	},
}

func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}
