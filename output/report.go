// Package output provides different formats of output for evaluation reports.
package output

import (
	"time"

	"github.com/google/uuid"
	"github.com/hscells/themeval"
	"github.com/hscells/themeval/eval"
	"github.com/hscells/themeval/taxonomy"
)

// Report is the result of evaluating one prediction file.
type Report struct {
	RunID       string      `json:"run_id" yaml:"run_id"`
	Created     time.Time   `json:"created" yaml:"created"`
	Predictions string      `json:"predictions,omitempty" yaml:"predictions,omitempty"`
	Documents   int         `json:"documents" yaml:"documents"`
	Runs        []RunReport `json:"runs" yaml:"runs"`
}

// RunReport holds the aggregate metrics of a run ordered by depth and, when tracked, its per-label statistics
// ordered by label.
type RunReport struct {
	Run            themeval.Run  `json:"run" yaml:"run"`
	Metrics        []eval.Metric `json:"metrics" yaml:"metrics"`
	ConfusionDepth int           `json:"confusion_depth,omitempty" yaml:"confusion_depth,omitempty"`
	Labels         []LabelRow    `json:"labels,omitempty" yaml:"labels,omitempty"`
	Macro          *eval.Macro   `json:"macro,omitempty" yaml:"macro,omitempty"`
}

// LabelRow is the reported view of a label's statistics.
type LabelRow struct {
	Label      themeval.LabelID `json:"label" yaml:"label"`
	Name       string           `json:"name,omitempty" yaml:"name,omitempty"`
	RefCount   int              `json:"ref_count" yaml:"ref_count"`
	PredCount  int              `json:"pred_count" yaml:"pred_count"`
	ValidCount int              `json:"valid_count" yaml:"valid_count"`
	Precision  eval.Score       `json:"p" yaml:"p"`
	Recall     eval.Score       `json:"r" yaml:"r"`
	F1         eval.Score       `json:"f1" yaml:"f1"`
	Confusions []eval.Confusion `json:"confused_with" yaml:"confused_with"`
}

// NewReport creates an empty report with a fresh run id.
func NewReport(predictions string, documents int) Report {
	return Report{
		RunID:       uuid.New().String(),
		Created:     time.Now().UTC(),
		Predictions: predictions,
		Documents:   documents,
	}
}

// NewRunReport assembles the report of a run. The tracker may be nil when per-label statistics were not
// requested; tx may be nil when label names are not known.
func NewRunReport(run themeval.Run, metrics []eval.Metric, tracker *eval.Tracker, tx *taxonomy.Taxonomy) RunReport {
	r := RunReport{Run: run, Metrics: metrics}
	if tracker == nil {
		return r
	}
	stats := tracker.Stats()
	r.ConfusionDepth = tracker.Depth
	r.Labels = make([]LabelRow, len(stats))
	for i, s := range stats {
		r.Labels[i] = LabelRow{
			Label:      s.Label,
			RefCount:   s.RefCount,
			PredCount:  s.PredCount,
			ValidCount: s.ValidCount,
			Precision:  s.Precision(),
			Recall:     s.Recall(),
			F1:         s.F1(),
			Confusions: s.Confusions(),
		}
		if tx != nil {
			r.Labels[i].Name = tx.Name(run, s.Label)
		}
	}
	macro := eval.MacroAverage(stats)
	r.Macro = &macro
	return r
}
