package main

import (
	"context"
	"flag"
	"log"
	"os"

	_ "github.com/carbocation/qtlscan/compileinfoprint"
)

func main() {
	// Tests every marker in a genotype x phenotype matrix for association
	// between the two parental genotype classes and the phenotype, corrects
	// for multiple testing, and writes a Manhattan plot, a results table and
	// boxplots for selected markers.
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalln(err)
	}

	if cfg.Input == "" {
		log.Println("qtlscan: -input is required (directly or via -config)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalln(err)
	}
}
