package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("qtlscan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestDatasetName(t *testing.T) {
	for input, expected := range map[string]string{
		"CameorF7.csv":                 "CameorF7",
		"/data/CameorF7.csv.gz":        "CameorF7",
		"gs://bucket/dir/CameorF7.TSV": "CameorF7",
		"CameorF7":                     "CameorF7",
		"run.2022.csv":                 "run.2022",
		`C:\data\CameorF7.txt.bz2`:     "CameorF7",
	} {
		if got := DatasetName(input); got != expected {
			t.Errorf("%s: got %q, expected %q", input, got, expected)
		}
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(newFlagSet(), []string{"-input", "data/CameorF7.csv"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Name != "CameorF7" || cfg.Method != "bonferroni" || cfg.Alpha != 0.05 {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"png", "pdf", "svg"}) {
		t.Errorf("Unexpected formats %v", cfg.Formats)
	}
	if !reflect.DeepEqual(cfg.BoxplotMarkers, defaultBoxplotMarkers) {
		t.Errorf("Unexpected boxplot markers %v", cfg.BoxplotMarkers)
	}
}

func TestParseConfigFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.toml")
	err := os.WriteFile(path, []byte(`
input = "gs://bucket/CameorF7.csv.gz"
method = "fdr_bh"
alpha = 0.01
formats = ["svg", "tif"]
boxplot_markers = ["AX-1", "AX-2"]
welch = true
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := parseConfig(newFlagSet(), []string{"-config", path, "-alpha", "0.1", "-boxplot_markers", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Input != "gs://bucket/CameorF7.csv.gz" || cfg.Name != "CameorF7" || cfg.Method != "fdr_bh" || !cfg.Welch {
		t.Errorf("File values were not applied: %+v", cfg)
	}
	if cfg.Alpha != 0.1 {
		t.Errorf("Flag should override the file, got alpha %v", cfg.Alpha)
	}
	if len(cfg.BoxplotMarkers) != 0 {
		t.Errorf("An empty flag should clear the list, got %v", cfg.BoxplotMarkers)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"svg", "tif"}) {
		t.Errorf("Unexpected formats %v", cfg.Formats)
	}
	if cfg.Layout != "default" {
		t.Errorf("Unset keys should keep their defaults, got layout %q", cfg.Layout)
	}
}

func TestParseConfigRejects(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("input = \"x.csv\"\nbonferonni = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for name, args := range map[string][]string{
		"unknown key":    {"-config", unknown},
		"missing file":   {"-config", filepath.Join(dir, "missing.toml")},
		"bad method":     {"-input", "x.csv", "-method", "sidak"},
		"bad layout":     {"-input", "x.csv", "-layout", "vcf"},
		"bad alpha":      {"-input", "x.csv", "-alpha", "1.5"},
		"bad format":     {"-input", "x.csv", "-formats", "png,webp"},
		"same parents":   {"-input", "x.csv", "-parent_a", "C", "-parent_b", "C"},
		"bad order":      {"-input", "x.csv", "-group_order", "random"},
		"bad name":       {"-input", "x.csv", "-name", "a/b"},
		"undefined flag": {"-bogus"},
	} {
		if _, err := parseConfig(newFlagSet(), args); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestParserLayoutOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = "tsv"
	cfg.PhenotypeSentinel = "Trait"

	layout := cfg.ParserLayout()
	if layout.Delimiter != '\t' || layout.PhenotypeSentinel != "Trait" || layout.SampleSentinel != "marker" {
		t.Errorf("Unexpected layout %+v", layout)
	}
}
