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
	"github.com/hscells/themeval/prediction"
)

var (
	name    = "dump_themes"
	version = "19.Oct.2026"
)

type args struct {
	Predictions []string `arg:"positional,required" help:"prediction files, one column each"`
	Reference   string   `arg:"--reference" help:"reference file"`
	Taxonomy    string   `arg:"--taxonomy" help:"directory holding the taxonomy resource files, to print theme names"`
	Config      string   `arg:"--config" help:"properties file with settings"`
	Debug       bool     `arg:"--debug" help:"print the stack of fatal errors"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", name, version)
}

func (args) Description() string {
	return `prints the top predicted theme of several systems side by side with the reference theme`
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

	var sets []*prediction.Set
	files := make(chan cmd.PredictionFile)
	go cmd.LoadPredictionFiles(args.Predictions, files)
	for f := range files {
		if f.Error != nil {
			cmd.Fatal(f.Error, args.Debug)
		}
		log.Printf("loaded %d predictions from %s", f.Predictions.Len(), f.Path)
		sets = append(sets, f.Predictions)
	}

	w := bufio.NewWriter(os.Stdout)
	if err := output.WriteTopThemes(w, ref, args.Predictions, sets, tx); err != nil {
		cmd.Fatal(err, args.Debug)
	}
	if err := w.Flush(); err != nil {
		cmd.Fatal(err, args.Debug)
	}
}
