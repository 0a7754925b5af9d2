// Package correction adjusts a family of raw p-values for multiple testing.
package correction

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Method maps raw p-values to adjusted p-values. Output index i corresponds
// to input index i. A Method must not modify its input.
type Method func(raw []float64) ([]float64, error)

type method struct {
	Tag    string
	Adjust Method
}

var methods = map[string]method{
	"bonferroni": {Tag: "BON", Adjust: Bonferroni},
	"holm":       {Tag: "HOLM", Adjust: Holm},
	"fdr_bh":     {Tag: "FDR_BH", Adjust: BenjaminiHochberg},
}

// Lookup returns the method registered under name.
func Lookup(name string) (Method, error) {
	m, exists := methods[name]
	if !exists {
		return nil, fmt.Errorf("correction method %q not recognized. Options include: %s", name, MethodNames())
	}

	return m.Adjust, nil
}

// Tag is the short label used in output file names, e.g. BON for bonferroni.
func Tag(name string) string {
	if m, exists := methods[name]; exists {
		return m.Tag
	}

	return strings.ToUpper(name)
}

func MethodNames() string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// Bonferroni multiplies each p-value by the number of tests.
func Bonferroni(raw []float64) ([]float64, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	n := float64(len(raw))
	out := make([]float64, len(raw))
	for i, p := range raw {
		out[i] = clamp(p * n)
	}

	return out, nil
}

// Holm is the step-down Holm-Bonferroni procedure.
func Holm(raw []float64) ([]float64, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	n := len(raw)
	order := ascending(raw)
	out := make([]float64, n)

	running := 0.0
	for rank, i := range order {
		adj := clamp(float64(n-rank) * raw[i])
		if adj < running {
			adj = running
		}
		running = adj
		out[i] = adj
	}

	return out, nil
}

// BenjaminiHochberg controls the false discovery rate (step-up).
func BenjaminiHochberg(raw []float64) ([]float64, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	n := len(raw)
	order := ascending(raw)
	out := make([]float64, n)

	running := 1.0
	for rank := n - 1; rank >= 0; rank-- {
		i := order[rank]
		adj := clamp(raw[i] * float64(n) / float64(rank+1))
		if adj > running {
			adj = running
		}
		running = adj
		out[i] = adj
	}

	return out, nil
}

func validate(raw []float64) error {
	for i, p := range raw {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("p-value %d is %v, outside [0,1]", i, p)
		}
	}

	return nil
}

// ascending returns the indices of raw ordered by p-value. Ties keep their
// input order.
func ascending(raw []float64) []int {
	order := make([]int, len(raw))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return raw[order[a]] < raw[order[b]]
	})

	return order
}

func clamp(p float64) float64 {
	return math.Min(1, math.Max(0, p))
}
