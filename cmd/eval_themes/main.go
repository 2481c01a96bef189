package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/hscells/themeval"
	"github.com/hscells/themeval/cmd"
	"github.com/hscells/themeval/config"
	"github.com/hscells/themeval/output"
	"github.com/hscells/themeval/pipeline"
	"github.com/hscells/themeval/prediction"
	"github.com/hscells/themeval/reference"
	"github.com/pkg/errors"
)

var (
	name    = "eval_themes"
	version = "19.Oct.2026"
)

type args struct {
	Predictions string `arg:"positional,required" help:"prediction file (JSON: doc id -> theme and sub_themes rankings)"`
	Config      string `arg:"--config" help:"properties file with evaluation settings"`
	Reference   string `arg:"--reference" help:"reference file (gob, optionally gzip/zstd/bzip2 compressed)"`
	Taxonomy    string `arg:"--taxonomy" help:"directory holding themes.tsv, subthemes.tsv and the relationship file"`
	Cache       string `arg:"--cache" help:"directory to cache the decoded reference in"`
	Labels      bool   `arg:"--labels" help:"report per-label precision, recall and confusions"`
	Format      string `arg:"--format" help:"output format (text, json, csv, yaml)"`
	Depths      string `arg:"--depths" help:"comma separated evaluation depths"`
	Runs        string `arg:"--runs" help:"comma separated runs to evaluate (theme, sub_themes)"`
	SortByScore bool   `arg:"--sort-by-score" help:"sort every ranking by descending score before truncation"`
	Progress    bool   `arg:"--progress" help:"show a progress bar on stderr"`
	TrecRun     string `arg:"--trec-run" help:"also write the predictions as a TREC run file"`
	TrecQrels   string `arg:"--trec-qrels" help:"also write the reference as a TREC qrels file"`
	TrecDepth   int    `arg:"--trec-depth" help:"number of labels per document in the TREC run"`
	Debug       bool   `arg:"--debug" help:"print the stack of fatal errors"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", name, version)
}

func (args) Description() string {
	return `evaluates theme and subtheme predictions against the reference annotations`
}

// settings merges the configuration files and the command line flags.
func settings(args args) (config.Config, error) {
	var depths []int
	if len(args.Depths) > 0 {
		var err error
		if depths, err = config.ParseDepths(args.Depths); err != nil {
			return config.Config{}, errors.Wrap(err, "--depths")
		}
	}
	var runs []themeval.Run
	if len(args.Runs) > 0 {
		var err error
		if runs, err = config.ParseRuns(args.Runs); err != nil {
			return config.Config{}, errors.Wrap(err, "--runs")
		}
	}
	return cmd.Settings(args.Config,
		config.Reference(args.Reference),
		config.Taxonomy(args.Taxonomy),
		config.Cache(args.Cache),
		config.Format(args.Format),
		config.Depths(depths),
		config.Runs(runs),
		config.Labels(args.Labels),
		config.SortByScore(args.SortByScore))
}

// exportTrec writes the optional TREC run and qrels files.
func exportTrec(logger *log.Logger, args args, c config.Config, ref *reference.Store, preds *prediction.Set) error {
	if len(args.TrecRun) == 0 && len(args.TrecQrels) == 0 {
		return nil
	}
	evaluated := c.Runs[0]
	if len(args.TrecRun) > 0 {
		f, err := os.Create(args.TrecRun)
		if err != nil {
			return errors.Wrap(err, "create trec run")
		}
		defer f.Close()
		runName := strings.TrimSuffix(filepath.Base(args.Predictions), filepath.Ext(args.Predictions))
		if err := output.WriteTrecRun(f, preds, evaluated, args.TrecDepth, runName); err != nil {
			return err
		}
		logger.Printf("wrote %s run to %s", evaluated, args.TrecRun)
	}
	if len(args.TrecQrels) > 0 {
		f, err := os.Create(args.TrecQrels)
		if err != nil {
			return errors.Wrap(err, "create trec qrels")
		}
		defer f.Close()
		ids := make([]themeval.DocID, 0, preds.Len())
		for _, id := range preds.IDs() {
			rid, err := ref.Resolve(preds.Key(id))
			if err != nil {
				return err
			}
			ids = append(ids, rid)
		}
		if err := output.WriteTrecQrels(f, ref, ids, evaluated); err != nil {
			return err
		}
		logger.Printf("wrote %s qrels to %s", evaluated, args.TrecQrels)
	}
	return nil
}

// run evaluates the prediction file named in argv, writing the report to stdout and diagnostics to stderr. It
// returns the exit status: 0 on success, 1 on a usage error or any failure.
func run(argv []string, stdout, stderr io.Writer) int {
	var args args
	args.TrecDepth = themeval.MaxDepth
	p, err := arg.NewParser(arg.Config{Program: name}, &args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	switch err := p.Parse(argv); {
	case err == arg.ErrHelp:
		p.WriteHelp(stdout)
		return 0
	case err == arg.ErrVersion:
		fmt.Fprintln(stdout, args.Version())
		return 0
	case err != nil:
		p.WriteUsage(stderr)
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fail := func(err error) int {
		cmd.Report(stderr, err, args.Debug)
		return 1
	}

	c, err := settings(args)
	if err != nil {
		return fail(err)
	}

	formatter, err := output.GetFormatter(c.Format)
	if err != nil {
		return fail(err)
	}

	ref, err := cmd.LoadReference(c.ReferencePath, c.CacheDir)
	if err != nil {
		return fail(err)
	}

	preds, err := prediction.Load(args.Predictions)
	if err != nil {
		return fail(err)
	}

	tx, err := cmd.LoadTaxonomy(c.TaxonomyDir)
	if err != nil {
		return fail(err)
	}

	components := []func() interface{}{
		pipeline.Name(args.Predictions),
		pipeline.Runs(c.Runs...),
		pipeline.Depths(c.Depths...),
	}
	if c.Labels {
		components = append(components, pipeline.Labels(c.ConfusionDepth))
	}
	if c.SortByScore {
		components = append(components, pipeline.SortByScore())
	}
	if args.Progress {
		components = append(components, pipeline.Progress())
	}
	if tx != nil {
		components = append(components, pipeline.Taxonomy(tx))
	}

	report, err := pipeline.New(ref, preds, components...).Execute()
	if err != nil {
		return fail(err)
	}

	s, err := formatter(report)
	if err != nil {
		return fail(err)
	}
	fmt.Fprint(stdout, s)

	if c.SortByScore {
		preds = preds.SortByScore()
	}
	if err := exportTrec(log.New(stderr, "", log.LstdFlags), args, c, ref, preds); err != nil {
		return fail(err)
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
