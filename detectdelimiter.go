package qtlscan

import (
	"bytes"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiters that a genotype matrix may plausibly use. Space is left out
// because sample and marker names may contain one.
const candidateDelimiters = ",\t;"

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in sample, assuming a CSV-like file. If the detector has no opinion,
// or proposes something that a genotype matrix would not use, fallback is
// returned.
func DetermineDelimiter(sample []byte, fallback rune) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(sample), '"')

	for _, v := range delimiters {
		if v == "" {
			continue
		}
		r := []rune(v)[0]
		if strings.ContainsRune(candidateDelimiters, r) {
			return r
		}
	}

	return fallback
}
