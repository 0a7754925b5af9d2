package genotype

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const smallMatrix = `marker,LG,cM,R1,R2,R3,R4
Pheno,,,1.0,1.2,5.0,5.3
AX-1,LG1,0.0,C,C,J,J
AX-2,LG1,12.5,C,J,-,J
`

func mustParse(t *testing.T, layout, input string) *Dataset {
	t.Helper()
	parser, err := New(layout)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := parser.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	return ds
}

func TestParseWellFormed(t *testing.T) {
	ds := mustParse(t, "default", smallMatrix)

	if ds.SampleCount() != 4 || len(ds.Phenotypes) != 4 {
		t.Fatalf("Expected 4 samples, got %d ids and %d phenotypes", ds.SampleCount(), len(ds.Phenotypes))
	}
	if len(ds.Markers) != 2 {
		t.Fatalf("Expected 2 markers, got %d", len(ds.Markers))
	}
	for _, m := range ds.Markers {
		if len(m.Genotypes) != ds.SampleCount() {
			t.Errorf("%s: %d genotypes for %d samples", m.Name, len(m.Genotypes), ds.SampleCount())
		}
	}

	m := ds.Markers[1]
	if m.Name != "AX-2" || m.LinkageGroup != "LG1" || m.Position != 12.5 || m.Row != 4 {
		t.Errorf("Unexpected marker %+v", m)
	}
	if !reflect.DeepEqual(ds.SampleIDs, []string{"R1", "R2", "R3", "R4"}) {
		t.Errorf("Unexpected sample IDs %v", ds.SampleIDs)
	}
	if !reflect.DeepEqual(ds.Phenotypes, []float64{1.0, 1.2, 5.0, 5.3}) {
		t.Errorf("Unexpected phenotypes %v", ds.Phenotypes)
	}
}

func TestParseDeterministic(t *testing.T) {
	a := mustParse(t, "default", smallMatrix)
	b := mustParse(t, "default", smallMatrix)
	if !reflect.DeepEqual(a, b) {
		t.Error("Parsing the same input twice gave different datasets")
	}
}

func TestParseHeadersAnywhere(t *testing.T) {
	input := `AX-1,LG1,0.0,C,C,J,J
# a comment line
Pheno,,,1.0,1.2,5.0,5.3
AX-2,LG1,12.5,C,J,-,J
marker,LG,cM,R1,R2,R3,R4
AX-3,LG2,3.0,J,J,C,C
`
	ds := mustParse(t, "default", input)

	var names []string
	for _, m := range ds.Markers {
		names = append(names, m.Name)
	}
	if !reflect.DeepEqual(names, []string{"AX-1", "AX-2", "AX-3"}) {
		t.Errorf("Marker order should follow the file, got %v", names)
	}
}

func TestParseAutoDelimiter(t *testing.T) {
	ds := mustParse(t, "auto", strings.ReplaceAll(smallMatrix, ",", "\t"))
	if len(ds.Markers) != 2 || ds.SampleCount() != 4 {
		t.Errorf("Got %d markers and %d samples", len(ds.Markers), ds.SampleCount())
	}
}

func TestGroupsKeepAllSymbols(t *testing.T) {
	ds := mustParse(t, "default", smallMatrix)

	groups := ds.Groups(1)
	want := map[string][]float64{
		"C": {1.0},
		"J": {1.2, 5.3},
		"-": {5.0},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("Got %v, want %v", groups, want)
	}

	if counts := ds.Counts(1); counts["-"] != 1 || counts["J"] != 2 || counts["C"] != 1 {
		t.Errorf("Unexpected counts %v", counts)
	}

	if i, ok := ds.Lookup("AX-2"); !ok || i != 1 {
		t.Errorf("Lookup failed: %d %v", i, ok)
	}
	if _, ok := ds.Lookup("AX-404"); ok {
		t.Error("Lookup found a marker that does not exist")
	}
}

func TestParseErrors(t *testing.T) {
	for name, v := range map[string]struct {
		Input string
		Check func(error) bool
	}{
		"short marker row": {
			Input: "marker,LG,cM,R1,R2\nPheno,,,1,2\nAX-1,LG1,0,C\n",
			Check: func(err error) bool { var e *MalformedRowError; return errors.As(err, &e) && e.Row == 3 && e.Name == "AX-1" },
		},
		"long marker row": {
			Input: "marker,LG,cM,R1,R2\nPheno,,,1,2\nAX-1,LG1,0,C,J,J\n",
			Check: func(err error) bool { var e *MalformedRowError; return errors.As(err, &e) && e.Row == 3 },
		},
		"bad position": {
			Input: "marker,LG,cM,R1,R2\nPheno,,,1,2\nAX-1,LG1,x,C,J\n",
			Check: func(err error) bool { var e *MalformedRowError; return errors.As(err, &e) && e.Name == "AX-1" },
		},
		"negative position": {
			Input: "marker,LG,cM,R1,R2\nPheno,,,1,2\nAX-1,LG1,-1,C,J\n",
			Check: func(err error) bool { var e *MalformedRowError; return errors.As(err, &e) },
		},
		"duplicate marker": {
			Input: "marker,LG,cM,R1,R2\nPheno,,,1,2\nAX-1,LG1,0,C,J\nAX-1,LG1,1,C,J\n",
			Check: func(err error) bool { var e *MalformedRowError; return errors.As(err, &e) && e.Row == 4 },
		},
		"bad phenotype": {
			Input: "marker,LG,cM,R1,R2\nPheno,,,1,NA\nAX-1,LG1,0,C,J\n",
			Check: func(err error) bool {
				var e *InvalidPhenotypeError
				return errors.As(err, &e) && e.Row == 2 && e.SampleID == "R2" && e.Value == "NA"
			},
		},
		"short phenotype row": {
			Input: "marker,LG,cM,R1,R2\nPheno,,,1\nAX-1,LG1,0,C,J\n",
			Check: func(err error) bool { var e *MalformedRowError; return errors.As(err, &e) && e.Row == 2 },
		},
		"missing phenotype": {
			Input: "marker,LG,cM,R1,R2\nAX-1,LG1,0,C,J\n",
			Check: func(err error) bool { var e *MissingHeaderError; return errors.As(err, &e) && e.Sentinel == "Pheno" },
		},
		"missing samples": {
			Input: "Pheno,,,1,2\nAX-1,LG1,0,C,J\n",
			Check: func(err error) bool { var e *MissingHeaderError; return errors.As(err, &e) && e.Sentinel == "marker" },
		},
		"second phenotype row": {
			Input: "marker,LG,cM,R1,R2\nPheno,,,1,2\nPheno,,,1,2\n",
			Check: func(err error) bool { var e *MalformedRowError; return errors.As(err, &e) && e.Row == 3 },
		},
	} {
		parser, err := New("default")
		if err != nil {
			t.Fatal(err)
		}
		ds, err := parser.Parse(strings.NewReader(v.Input))
		if err == nil {
			t.Errorf("%s: expected an error", name)
			continue
		}
		if ds != nil {
			t.Errorf("%s: a partial dataset was returned", name)
		}
		if !v.Check(err) {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}
