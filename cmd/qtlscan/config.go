package main

import (
	"flag"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/qtlscan/association"
	"github.com/carbocation/qtlscan/chrpos"
	"github.com/carbocation/qtlscan/correction"
	"github.com/carbocation/qtlscan/genotype"
	"github.com/carbocation/qtlscan/report"
)

// Markers that are always worth a closer look in the Cameor x F7 cross.
var defaultBoxplotMarkers = []string{"AX-183567168", "AX-183567200", "AX-183861105", "AX-183578342"}

// Stripped, repeatedly, from the input file name to get the dataset name.
var inputExtensions = []string{".gz", ".bz2", ".xz", ".zip", ".zlib", ".csv", ".tsv", ".txt"}

type Config struct {
	Input     string `toml:"input"`
	Name      string `toml:"name"`
	OutputDir string `toml:"output_dir"`

	Layout            string `toml:"layout"`
	SampleSentinel    string `toml:"sample_sentinel"`
	PhenotypeSentinel string `toml:"phenotype_sentinel"`

	ParentA string `toml:"parent_a"`
	ParentB string `toml:"parent_b"`
	Welch   bool   `toml:"welch"`
	Workers int    `toml:"workers"`

	Method string  `toml:"method"`
	Alpha  float64 `toml:"alpha"`

	Formats        []string `toml:"formats"`
	BoxplotMarkers []string `toml:"boxplot_markers"`
	BoxplotOrder   []string `toml:"boxplot_order"`
	GroupOrder     string   `toml:"group_order"`
	Width          int      `toml:"width"`
	Height         int      `toml:"height"`

	Segregation       bool    `toml:"segregation"`
	SegregationCutoff float64 `toml:"segregation_cutoff"`
}

func DefaultConfig() Config {
	return Config{
		OutputDir:         ".",
		Layout:            "default",
		ParentA:           association.DefaultParents.A,
		ParentB:           association.DefaultParents.B,
		Method:            "bonferroni",
		Alpha:             0.05,
		Formats:           append([]string(nil), report.DefaultFormats...),
		BoxplotMarkers:    append([]string(nil), defaultBoxplotMarkers...),
		BoxplotOrder:      append([]string(nil), report.DefaultBoxOrder...),
		GroupOrder:        "encounter",
		Width:             1400,
		Height:            600,
		SegregationCutoff: 1e-3,
	}
}

// stringList is a comma-separated flag value.
type stringList struct {
	list *[]string
}

func (s stringList) String() string {
	if s.list == nil {
		return ""
	}
	return strings.Join(*s.list, ",")
}

func (s stringList) Set(v string) error {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*s.list = out

	return nil
}

func bindFlags(fs *flag.FlagSet, c *Config, configPath *string) {
	fs.StringVar(configPath, "config", "", "Optional TOML file with any of the settings below. Flags given on the command line take precedence.")
	fs.StringVar(&c.Input, "input", c.Input, "Genotype x phenotype matrix. Local path or gs://bucket/object, optionally compressed.")
	fs.StringVar(&c.Name, "name", c.Name, "Dataset name used in output file names. Defaults to the input file name without extensions.")
	fs.StringVar(&c.OutputDir, "output_dir", c.OutputDir, "Directory where outputs are written.")
	fs.StringVar(&c.Layout, "layout", c.Layout, fmt.Sprintf("Input layout. One of: %s", genotype.LayoutNames()))
	fs.StringVar(&c.SampleSentinel, "sample_sentinel", c.SampleSentinel, "Overrides the first-column value that marks the sample ID row.")
	fs.StringVar(&c.PhenotypeSentinel, "phenotype_sentinel", c.PhenotypeSentinel, "Overrides the first-column value that marks the phenotype row.")
	fs.StringVar(&c.ParentA, "parent_a", c.ParentA, "Genotype symbol of the first parental class.")
	fs.StringVar(&c.ParentB, "parent_b", c.ParentB, "Genotype symbol of the second parental class.")
	fs.BoolVar(&c.Welch, "welch", c.Welch, "Use Welch's unequal-variance t-test instead of the pooled-variance test.")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Markers tested concurrently. 0 means one per CPU.")
	fs.StringVar(&c.Method, "method", c.Method, fmt.Sprintf("Multiple testing correction. One of: %s", correction.MethodNames()))
	fs.Float64Var(&c.Alpha, "alpha", c.Alpha, "Significance level drawn on the Manhattan plot.")
	fs.Var(stringList{&c.Formats}, "formats", fmt.Sprintf("Comma-separated image formats. Options include: %s", report.FormatNames()))
	fs.Var(stringList{&c.BoxplotMarkers}, "boxplot_markers", "Comma-separated markers that get a boxplot. Pass an empty string for none.")
	fs.Var(stringList{&c.BoxplotOrder}, "boxplot_order", "Comma-separated genotype classes, left to right, on boxplots.")
	fs.StringVar(&c.GroupOrder, "group_order", c.GroupOrder, "Order of linkage groups along the genome axis: 'encounter' (file order) or 'sorted'.")
	fs.IntVar(&c.Width, "width", c.Width, "Manhattan plot width in pixels.")
	fs.IntVar(&c.Height, "height", c.Height, "Manhattan plot height in pixels.")
	fs.BoolVar(&c.Segregation, "segregation", c.Segregation, "Also test each marker for 1:1 segregation and write <name>-segregation.csv.")
	fs.Float64Var(&c.SegregationCutoff, "segregation_cutoff", c.SegregationCutoff, "Segregation P values below this are recomputed exactly and counted as distorted.")
}

// parseConfig reads flags and, if -config names one, a TOML file. Values from
// the file replace the defaults; flags that were actually given on the
// command line replace values from the file.
func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cli := DefaultConfig()
	var configPath string
	bindFlags(fs, &cli, &configPath)
	if err := fs.Parse(args); err != nil {
		return cli, err
	}

	if configPath == "" {
		return cli, cli.finish()
	}

	cfg := DefaultConfig()
	md, err := toml.DecodeFile(configPath, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", configPath, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("%s: unrecognized keys %s", configPath, strings.Join(keys, ", "))
	}

	overrides := flag.NewFlagSet("overrides", flag.ContinueOnError)
	bindFlags(overrides, &cfg, new(string))
	fs.Visit(func(f *flag.Flag) {
		if err != nil || f.Name == "config" {
			return
		}
		err = overrides.Set(f.Name, f.Value.String())
	})
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.finish()
}

// finish fills derived values and checks everything that can be checked
// before the input is opened.
func (c *Config) finish() error {
	if c.Input == "" {
		return nil
	}

	if c.Name == "" {
		c.Name = DatasetName(c.Input)
	}
	if c.Name == "" || strings.ContainsAny(c.Name, `/\`) {
		return fmt.Errorf("dataset name %q cannot be used in a file name", c.Name)
	}

	if _, exists := genotype.Layouts[c.Layout]; !exists {
		return fmt.Errorf("layout %s is not found. Valid layout names include: %s", c.Layout, genotype.LayoutNames())
	}
	if _, err := correction.Lookup(c.Method); err != nil {
		return err
	}
	if _, exists := chrpos.GroupOrders[c.GroupOrder]; !exists {
		return fmt.Errorf("group order %q not recognized; use 'encounter' or 'sorted'", c.GroupOrder)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be between 0 and 1, got %v", c.Alpha)
	}
	if c.ParentA == "" || c.ParentB == "" || c.ParentA == c.ParentB {
		return fmt.Errorf("parental classes must be two different symbols, got %q and %q", c.ParentA, c.ParentB)
	}

	formats, err := report.ParseFormats(c.Formats)
	if err != nil {
		return err
	}
	c.Formats = formats

	return nil
}

// DatasetName is the base name of input with compression and table
// extensions removed: gs://bucket/CameorF7.csv.gz becomes CameorF7.
func DatasetName(input string) string {
	name := path.Base(strings.ReplaceAll(input, `\`, "/"))

	for stripped := true; stripped; {
		stripped = false
		for _, ext := range inputExtensions {
			if len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
				name = name[:len(name)-len(ext)]
				stripped = true
			}
		}
	}

	return name
}

// ParserLayout is the configured layout with any sentinel overrides applied.
func (c Config) ParserLayout() genotype.Layout {
	layout := genotype.Layouts[c.Layout]
	if c.SampleSentinel != "" {
		layout.SampleSentinel = c.SampleSentinel
	}
	if c.PhenotypeSentinel != "" {
		layout.PhenotypeSentinel = c.PhenotypeSentinel
	}

	return layout
}
