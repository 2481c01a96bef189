package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/themeval/cmd"
	"github.com/hscells/themeval/config"
	"github.com/hscells/themeval/output"
)

var (
	name    = "theme_stats"
	version = "19.Oct.2026"
)

type args struct {
	Reference string `arg:"--reference" help:"reference file"`
	Taxonomy  string `arg:"--taxonomy" help:"directory holding the taxonomy resource files"`
	Config    string `arg:"--config" help:"properties file with settings"`
	Debug     bool   `arg:"--debug" help:"print the stack of fatal errors"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", name, version)
}

func (args) Description() string {
	return `prints how often each subtheme is annotated together with each theme in the reference`
}

func main() {
	var args args
	arg.MustParse(&args)

	c, err := cmd.Settings(args.Config, config.Reference(args.Reference), config.Taxonomy(args.Taxonomy))
	if err != nil {
		cmd.Fatal(err, args.Debug)
	}

	ref, err := cmd.LoadReference(c.ReferencePath, c.CacheDir)
	if err != nil {
		cmd.Fatal(err, args.Debug)
	}
	tx, err := cmd.LoadTaxonomy(c.TaxonomyDir)
	if err != nil {
		cmd.Fatal(err, args.Debug)
	}
	log.Printf("counting %d reference documents", ref.Len())

	w := bufio.NewWriter(os.Stdout)
	if err := output.NewThemeMatrix(ref, tx).Write(w, tx); err != nil {
		cmd.Fatal(err, args.Debug)
	}
	if err := w.Flush(); err != nil {
		cmd.Fatal(err, args.Debug)
	}
}
