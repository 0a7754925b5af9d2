package chrpos

import (
	"reflect"
	"sort"
	"testing"
)

func TestCumulativeOffsets(t *testing.T) {
	entries := []Entry{
		{"LG1", 0}, {"LG1", 10},
		{"LG2", 0}, {"LG2", 25},
		{"LG3", 0}, {"LG3", 5},
	}
	layout := Cumulative(entries, EncounterOrder)

	expected := []float64{0, 10, 10, 35, 35, 40}
	if got := layout.ByIndex(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Got %v, expected %v", got, expected)
	}

	for i, offset := range []float64{0, 10, 35} {
		if layout.Groups[i].Offset != offset {
			t.Errorf("%s: offset %v, expected %v", layout.Groups[i].Name, layout.Groups[i].Offset, offset)
		}
	}
	for k := 0; k+1 < len(layout.Groups); k++ {
		coords := layout.Groups[k].Coordinates
		if last := coords[len(coords)-1].Cumulative; last != layout.Groups[k+1].Offset {
			t.Errorf("%s ends at %v but %s starts at offset %v", layout.Groups[k].Name, last, layout.Groups[k+1].Name, layout.Groups[k+1].Offset)
		}
	}
	if layout.Extent() != 40 {
		t.Errorf("Extent %v, expected 40", layout.Extent())
	}
	if layout.Groups[1].Median != 22.5 {
		t.Errorf("LG2 median %v, expected 22.5", layout.Groups[1].Median)
	}
}

func TestCumulativeNonDecreasing(t *testing.T) {
	entries := []Entry{
		{"LG2", 30}, {"LG1", 7.5}, {"LG2", 3}, {"LG1", 0}, {"LG3", 12}, {"LG1", 7.5}, {"LG2", 3},
	}
	layout := Cumulative(entries, EncounterOrder)

	var names []string
	for _, g := range layout.Groups {
		names = append(names, g.Name)
		for i := 1; i < len(g.Coordinates); i++ {
			if g.Coordinates[i].Cumulative < g.Coordinates[i-1].Cumulative {
				t.Errorf("%s: cumulative positions decrease at %d", g.Name, i)
			}
		}
	}
	if !reflect.DeepEqual(names, []string{"LG2", "LG1", "LG3"}) {
		t.Errorf("Groups should appear in encounter order, got %v", names)
	}

	all := layout.Coordinates()
	if len(all) != len(entries) {
		t.Fatalf("Got %d coordinates for %d entries", len(all), len(entries))
	}
	if !sort.SliceIsSorted(all, func(i, j int) bool { return all[i].Cumulative < all[j].Cumulative }) {
		t.Errorf("Axis order is not sorted: %v", all)
	}

	// Ties keep collection order
	lg1 := layout.Groups[1].Coordinates
	if lg1[1].Index != 1 || lg1[2].Index != 5 {
		t.Errorf("Tie order lost: %+v", lg1)
	}
}

func TestCumulativeSorted(t *testing.T) {
	entries := []Entry{{"LG10", 1}, {"LG2", 4}, {"LG1", 2}}
	layout := Cumulative(entries, SortedOrder)

	var names []string
	for _, g := range layout.Groups {
		names = append(names, g.Name)
	}
	if !reflect.DeepEqual(names, []string{"LG1", "LG2", "LG10"}) {
		t.Errorf("Got %v", names)
	}
	if got := layout.ByIndex(); !reflect.DeepEqual(got, []float64{7, 6, 2}) {
		t.Errorf("Got %v", got)
	}
}

func TestCumulativeEmpty(t *testing.T) {
	layout := Cumulative(nil, SortedOrder)
	if len(layout.Groups) != 0 || len(layout.ByIndex()) != 0 || layout.Extent() != 0 {
		t.Errorf("Expected an empty layout, got %+v", layout)
	}
}

func TestNaturalLess(t *testing.T) {
	for _, v := range []struct {
		A, B string
		Less bool
	}{
		{"LG2", "LG10", true},
		{"LG10", "LG2", false},
		{"LG1", "LG1", false},
		{"LG1", "LG1a", true},
		{"LG01", "LG1", false},
		{"LG1", "LG01", true},
		{"chr9", "chrX", true},
		{"", "a", true},
		{"1", "a", true},
	} {
		if got := NaturalLess(v.A, v.B); got != v.Less {
			t.Errorf("NaturalLess(%q, %q) = %v", v.A, v.B, got)
		}
	}
}
