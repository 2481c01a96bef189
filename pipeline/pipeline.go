// Package pipeline aligns predictions with the reference and runs the corpus passes of an evaluation.
package pipeline

import (
	"log"
	"os"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/eval"
	"github.com/hscells/themeval/output"
	"github.com/hscells/themeval/prediction"
	"github.com/hscells/themeval/reference"
	"github.com/hscells/themeval/taxonomy"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
)

// Pipeline contains everything needed to evaluate one prediction file.
type Pipeline struct {
	Name           string
	Reference      *reference.Store
	Predictions    *prediction.Set
	Runs           []themeval.Run
	Depths         []int
	ConfusionDepth int
	Labels         bool
	SortByScore    bool
	Taxonomy       *taxonomy.Taxonomy
	Progress       bool
}

type (
	runs        []themeval.Run
	depths      []int
	labels      int
	sortByScore struct{}
	progress    struct{}
	name        string
)

// Runs sets the runs to evaluate, in order.
func Runs(r ...themeval.Run) func() interface{} {
	return func() interface{} {
		return runs(r)
	}
}

// Depths sets the evaluation depths.
func Depths(n ...int) func() interface{} {
	return func() interface{} {
		return depths(n)
	}
}

// Labels turns on per-label statistics at the given depth.
func Labels(depth int) func() interface{} {
	return func() interface{} {
		return labels(depth)
	}
}

// SortByScore re-sorts every ranking by descending score before truncation.
func SortByScore() func() interface{} {
	return func() interface{} {
		return sortByScore{}
	}
}

// Progress shows a progress bar on stderr during corpus passes.
func Progress() func() interface{} {
	return func() interface{} {
		return progress{}
	}
}

// Name records the name of the prediction file in the report.
func Name(n string) func() interface{} {
	return func() interface{} {
		return name(n)
	}
}

// Taxonomy attaches label names to the per-label statistics.
func Taxonomy(tx *taxonomy.Taxonomy) func() interface{} {
	return func() interface{} {
		return tx
	}
}

// New creates a pipeline over a reference store and a prediction set. Runs default to every run, depths to
// 1..5. Additional settings are provided via the optional functional arguments.
func New(ref *reference.Store, preds *prediction.Set, components ...func() interface{}) Pipeline {
	p := Pipeline{
		Reference:      ref,
		Predictions:    preds,
		Runs:           append([]themeval.Run(nil), themeval.Runs...),
		Depths:         themeval.DefaultDepths(),
		ConfusionDepth: eval.DefaultConfusionDepth,
	}

	for _, component := range components {
		switch v := component().(type) {
		case runs:
			p.Runs = v
		case depths:
			p.Depths = v
		case labels:
			p.Labels = true
			p.ConfusionDepth = int(v)
		case sortByScore:
			p.SortByScore = true
		case progress:
			p.Progress = true
		case name:
			p.Name = string(v)
		case *taxonomy.Taxonomy:
			p.Taxonomy = v
		}
	}

	return p
}

// Align pairs every prediction with its reference labels, by ascending doc id. A prediction key that is not in
// the reference yields an *reference.AlignmentError and nothing is evaluated.
func (p Pipeline) Align() ([]themeval.Document, error) {
	preds := p.Predictions
	if p.SortByScore {
		preds = preds.SortByScore()
	}
	ids := preds.IDs()
	docs := make([]themeval.Document, 0, len(ids))
	for _, id := range ids {
		rid, err := p.Reference.Resolve(preds.Key(id))
		if err != nil {
			return nil, err
		}
		ref, _ := p.Reference.Get(rid)
		pred, _ := preds.Get(id)
		docs = append(docs, themeval.Document{ID: rid, Reference: ref, Prediction: pred})
	}
	return docs, nil
}

func (p Pipeline) validate() ([]int, error) {
	if p.Reference == nil || p.Predictions == nil {
		return nil, errors.New("pipeline needs a reference and a prediction set")
	}
	if len(p.Runs) == 0 {
		return nil, errors.New("no run to evaluate")
	}
	for _, run := range p.Runs {
		if _, err := themeval.ParseRun(string(run)); err != nil {
			return nil, err
		}
	}
	if p.Labels && (p.ConfusionDepth < themeval.MinDepth || p.ConfusionDepth > themeval.MaxDepth) {
		return nil, errors.Errorf("confusion depth %d out of range [%d, %d]", p.ConfusionDepth, themeval.MinDepth, themeval.MaxDepth)
	}
	return themeval.ValidateDepths(p.Depths)
}

// Stream runs the pipeline, sending one result per run down c. The channel is closed once a Done or Error
// result has been sent.
func (p Pipeline) Stream(c chan Result) {
	defer close(c)

	depths, err := p.validate()
	if err != nil {
		c <- Result{Type: Error, Error: err}
		return
	}

	docs, err := p.Align()
	if err != nil {
		c <- Result{Type: Error, Error: err}
		return
	}
	c <- Result{Type: Aligned, Documents: len(docs)}

	for _, run := range p.Runs {
		r, err := p.pass(run, depths, docs)
		if err != nil {
			c <- Result{Type: Error, Error: err}
			return
		}
		c <- Result{Type: RunResult, Run: r}
	}
	c <- Result{Type: Done, Documents: len(docs)}
}

// pass makes one pass over the documents of a run, feeding every depth at once.
func (p Pipeline) pass(run themeval.Run, depths []int, docs []themeval.Document) (output.RunReport, error) {
	accumulators := make([]*eval.Accumulator, len(depths))
	for i, n := range depths {
		accumulators[i] = eval.NewAccumulator(run, n)
	}
	var tracker *eval.Tracker
	if p.Labels {
		tracker = eval.NewTracker(run, p.ConfusionDepth)
	}

	var bar *pb.ProgressBar
	if p.Progress {
		log.Printf("evaluating %s over %d documents", run, len(docs))
		bar = pb.New(len(docs))
		bar.Output = os.Stderr
		bar.Start()
	}

	for _, doc := range docs {
		for _, acc := range accumulators {
			acc.Observe(doc)
		}
		if tracker != nil {
			tracker.Observe(doc)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	metrics := make([]eval.Metric, len(accumulators))
	for i, acc := range accumulators {
		m, err := acc.Metric()
		if err != nil {
			return output.RunReport{}, err
		}
		metrics[i] = m
	}
	return output.NewRunReport(run, metrics, tracker, p.Taxonomy), nil
}

// Execute runs the pipeline and collects every run into a report.
func (p Pipeline) Execute() (output.Report, error) {
	c := make(chan Result)
	go p.Stream(c)

	var report output.Report
	for result := range c {
		switch result.Type {
		case Aligned:
			report = output.NewReport(p.Name, result.Documents)
		case RunResult:
			report.Runs = append(report.Runs, result.Run)
		case Error:
			return output.Report{}, result.Error
		}
	}
	return report, nil
}
