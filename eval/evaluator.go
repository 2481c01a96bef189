// Package eval scores predicted themes and subthemes against the reference annotation.
//
// Metrics are micro-averaged: counts are summed over the whole corpus and divided once. Per-label statistics and
// what each label is confused with are tracked separately by a Tracker.
package eval

import (
	"github.com/hscells/themeval"
	"github.com/pkg/errors"
)

var (
	// ErrNoReferences is returned when a corpus holds no reference label for a run, e.g. no document has a
	// subtheme, so recall cannot be computed.
	ErrNoReferences = errors.New("corpus contains no reference labels")
	// ErrNoPredictions is returned when a corpus holds no predicted label for a run, so precision cannot be
	// computed.
	ErrNoPredictions = errors.New("corpus contains no predicted labels")
)

// Measure computes a score from corpus-wide counts.
type Measure interface {
	Name() string
	Score(c Counts) Score
}

// Metric is the aggregate result of one run at one depth.
type Metric struct {
	Run       themeval.Run `json:"run" yaml:"run"`
	Depth     int          `json:"n" yaml:"n"`
	Counts    Counts       `json:"counts" yaml:"counts"`
	Precision Score        `json:"p" yaml:"p"`
	Recall    Score        `json:"r" yaml:"r"`
	F1        Score        `json:"f1" yaml:"f1"`
}

// Aggregate computes precision, recall and F1 from corpus-wide counts. A corpus without any reference or any
// predicted label is an error rather than an undefined score: it almost always means the wrong files were given.
func Aggregate(run themeval.Run, depth int, c Counts) (Metric, error) {
	if c.Reference == 0 {
		return Metric{}, errors.Wrapf(ErrNoReferences, "run %s at n=%d", run, depth)
	}
	if c.Predicted == 0 {
		return Metric{}, errors.Wrapf(ErrNoPredictions, "run %s at n=%d", run, depth)
	}
	return Metric{
		Run:       run,
		Depth:     depth,
		Counts:    c,
		Precision: Precision.Score(c),
		Recall:    Recall.Score(c),
		F1:        F1Measure.Score(c),
	}, nil
}

// Evaluate computes one metric per depth for a run, ordered by ascending depth.
func Evaluate(docs []themeval.Document, run themeval.Run, depths []int) ([]Metric, error) {
	depths, err := themeval.ValidateDepths(depths)
	if err != nil {
		return nil, err
	}
	accumulators := make([]*Accumulator, len(depths))
	for i, n := range depths {
		accumulators[i] = NewAccumulator(run, n)
	}
	for _, d := range docs {
		for _, a := range accumulators {
			a.Observe(d)
		}
	}
	metrics := make([]Metric, len(accumulators))
	for i, a := range accumulators {
		m, err := a.Metric()
		if err != nil {
			return nil, err
		}
		metrics[i] = m
	}
	return metrics, nil
}

// Scores evaluates arbitrary measures against the counts, keyed by measure name.
func Scores(c Counts, measures ...Measure) map[string]Score {
	s := make(map[string]Score, len(measures))
	for _, m := range measures {
		s[m.Name()] = m.Score(c)
	}
	return s
}

func mismatch(run themeval.Run, depth int, otherRun themeval.Run, otherDepth int) error {
	return errors.Errorf("cannot merge %s at n=%d into %s at n=%d", otherRun, otherDepth, run, depth)
}
