// Package chrpos places markers from several linkage groups on one
// continuous genome axis.
package chrpos

import (
	"sort"
	"strconv"
)

// Entry is one marker's map location, given in collection order.
type Entry struct {
	LinkageGroup string
	Position     float64
}

// Coordinate is an Entry placed on the cumulative axis. Index points back
// into the collection the entries came from.
type Coordinate struct {
	Index        int
	LinkageGroup string
	Position     float64
	Cumulative   float64
}

// Group is one linkage group on the axis. Offset is added to every position
// in the group; Max is the largest position in the group (not cumulative);
// Median is the median cumulative position, where an axis label belongs.
type Group struct {
	Name        string
	Offset      float64
	Max         float64
	Median      float64
	Coordinates []Coordinate
}

type Layout struct {
	Groups []Group

	n int
}

// GroupOrder decides the order in which linkage groups are laid end to end.
type GroupOrder int

const (
	// EncounterOrder places groups in the order they first appear.
	EncounterOrder GroupOrder = iota

	// SortedOrder places groups by name, comparing digit runs numerically so
	// that LG2 comes before LG10.
	SortedOrder
)

var GroupOrders = map[string]GroupOrder{
	"encounter": EncounterOrder,
	"sorted":    SortedOrder,
}

// Cumulative computes cumulative positions. The running offset starts at 0;
// each group's positions are shifted by the offset, then the offset grows by
// that group's maximum position. Within a group, coordinates are sorted by
// position; equal positions keep collection order.
func Cumulative(entries []Entry, order GroupOrder) Layout {
	byGroup := make(map[string][]Coordinate)
	var names []string
	for i, e := range entries {
		if _, seen := byGroup[e.LinkageGroup]; !seen {
			names = append(names, e.LinkageGroup)
		}
		byGroup[e.LinkageGroup] = append(byGroup[e.LinkageGroup], Coordinate{
			Index:        i,
			LinkageGroup: e.LinkageGroup,
			Position:     e.Position,
		})
	}

	if order == SortedOrder {
		sort.SliceStable(names, func(i, j int) bool {
			return NaturalLess(names[i], names[j])
		})
	}

	out := Layout{Groups: make([]Group, 0, len(names)), n: len(entries)}

	offset := 0.0
	for _, name := range names {
		coords := byGroup[name]
		sort.SliceStable(coords, func(i, j int) bool {
			return coords[i].Position < coords[j].Position
		})

		g := Group{Name: name, Offset: offset, Coordinates: coords}
		for i := range coords {
			coords[i].Cumulative = coords[i].Position + offset
			if coords[i].Position > g.Max {
				g.Max = coords[i].Position
			}
		}
		g.Median = medianCumulative(coords)

		out.Groups = append(out.Groups, g)
		offset += g.Max
	}

	return out
}

// ByIndex returns the cumulative position of every entry, aligned with the
// slice that was passed to Cumulative.
func (l Layout) ByIndex() []float64 {
	out := make([]float64, l.n)
	for _, g := range l.Groups {
		for _, c := range g.Coordinates {
			out[c.Index] = c.Cumulative
		}
	}

	return out
}

// Coordinates lists every coordinate in axis order.
func (l Layout) Coordinates() []Coordinate {
	out := make([]Coordinate, 0, l.n)
	for _, g := range l.Groups {
		out = append(out, g.Coordinates...)
	}

	return out
}

// Extent is the largest cumulative position on the axis.
func (l Layout) Extent() float64 {
	max := 0.0
	for _, g := range l.Groups {
		for _, c := range g.Coordinates {
			if c.Cumulative > max {
				max = c.Cumulative
			}
		}
	}

	return max
}

// coords must already be sorted.
func medianCumulative(coords []Coordinate) float64 {
	n := len(coords)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return coords[n/2].Cumulative
	}

	return (coords[n/2-1].Cumulative + coords[n/2].Cumulative) / 2
}

// NaturalLess compares a and b chunk by chunk, treating runs of digits as
// numbers.
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, restA := chunk(a)
		cb, restB := chunk(b)

		if ca != cb {
			na, errA := strconv.ParseUint(ca, 10, 64)
			nb, errB := strconv.ParseUint(cb, 10, 64)
			switch {
			case errA == nil && errB == nil && na != nb:
				return na < nb
			case errA == nil && errB == nil:
				// Same number, different zero padding
				return len(ca) < len(cb)
			default:
				return ca < cb
			}
		}

		a, b = restA, restB
	}

	return len(a) < len(b)
}

// chunk splits off the leading run of digits or non-digits.
func chunk(s string) (head, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}

	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
