package correction

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// Keyed pairs each raw p-value with the marker it belongs to. Names and
// PValues are parallel.
type Keyed struct {
	Names   []string
	PValues []float64
}

func (k *Keyed) Add(name string, p float64) {
	k.Names = append(k.Names, name)
	k.PValues = append(k.PValues, p)
}

// Adjusted holds corrected p-values, both in input order and by marker name.
type Adjusted struct {
	Method   string
	Adjusted []float64
	ByName   map[string]float64
}

// CorrectionInputMismatchError means a correction produced a different number
// of values than it was given, so values can no longer be matched to markers.
type CorrectionInputMismatchError struct {
	Want int
	Got  int
}

func (e *CorrectionInputMismatchError) Error() string {
	return fmt.Sprintf("correction returned %d values for %d p-values", e.Got, e.Want)
}

// Apply runs the named method over every p-value in keys at once.
func Apply(keys Keyed, name string) (Adjusted, error) {
	m, err := Lookup(name)
	if err != nil {
		return Adjusted{}, err
	}

	return ApplyMethod(keys, name, m)
}

// ApplyMethod is Apply for a method that is not in the registry.
func ApplyMethod(keys Keyed, name string, m Method) (Adjusted, error) {
	if len(keys.Names) != len(keys.PValues) {
		return Adjusted{}, &CorrectionInputMismatchError{Want: len(keys.Names), Got: len(keys.PValues)}
	}

	adj, err := m(keys.PValues)
	if err != nil {
		return Adjusted{}, pfx.Err(err)
	}
	if len(adj) != len(keys.PValues) {
		return Adjusted{}, &CorrectionInputMismatchError{Want: len(keys.PValues), Got: len(adj)}
	}

	out := Adjusted{
		Method:   name,
		Adjusted: adj,
		ByName:   make(map[string]float64, len(adj)),
	}
	for i, marker := range keys.Names {
		out.ByName[marker] = adj[i]
	}

	return out, nil
}
