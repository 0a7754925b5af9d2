package genotype

import "fmt"

// MalformedRowError is a structural failure on one row of the matrix.
type MalformedRowError struct {
	Row    int
	Name   string
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d (%s): malformed: %s", e.Row, e.Name, e.Reason)
}

// InvalidPhenotypeError is a phenotype value that is not a number.
type InvalidPhenotypeError struct {
	Row      int
	Column   int
	SampleID string
	Value    string
}

func (e *InvalidPhenotypeError) Error() string {
	return fmt.Sprintf("row %d column %d (sample %s): phenotype %q is not a number", e.Row, e.Column, e.SampleID, e.Value)
}

// MissingHeaderError means one of the two required header rows was never
// seen.
type MissingHeaderError struct {
	Sentinel string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("no header row starting with %q was found", e.Sentinel)
}
