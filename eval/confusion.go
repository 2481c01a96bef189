package eval

import (
	"sort"

	"github.com/hscells/themeval"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultConfusionDepth is the depth per-label statistics are tracked at.
const DefaultConfusionDepth = 1

// LabelStat is what happened to one label over the corpus.
type LabelStat struct {
	Label      themeval.LabelID `json:"label" yaml:"label"`
	RefCount   int              `json:"ref_count" yaml:"ref_count"`
	PredCount  int              `json:"pred_count" yaml:"pred_count"`
	ValidCount int              `json:"valid_count" yaml:"valid_count"`
	// ConfusedWith counts, for every document where the label was a missed reference, each label predicted
	// instead. NoLabel counts misses where nothing was predicted.
	ConfusedWith map[themeval.LabelID]int `json:"confused_with" yaml:"confused_with"`
}

// Confusion is one entry of a label's confusion list.
type Confusion struct {
	Label themeval.LabelID `json:"label" yaml:"label"`
	Count int              `json:"count" yaml:"count"`
	// Share is the percentage of the label's confusion mass.
	Share float64 `json:"share" yaml:"share"`
}

// Precision is ValidCount/PredCount, undefined for a label never predicted.
func (s LabelStat) Precision() Score {
	return Precision.Score(s.counts())
}

// Recall is ValidCount/RefCount, undefined for a label never in the reference.
func (s LabelStat) Recall() Score {
	return Recall.Score(s.counts())
}

// F1 is undefined when precision or recall is, since the label was then never predicted or never in the
// reference. Otherwise it is 0 for a label never correctly predicted, and the harmonic mean of precision and
// recall for the others.
func (s LabelStat) F1() Score {
	p, r := s.Precision(), s.Recall()
	if !p.Defined || !r.Defined {
		return NA
	}
	if s.ValidCount == 0 {
		return Defined(0)
	}
	return F1Measure.Combine(p, r)
}

func (s LabelStat) counts() Counts {
	return Counts{Valid: s.ValidCount, Reference: s.RefCount, Predicted: s.PredCount}
}

// Misses is the number of times the label was in the reference but not predicted.
func (s LabelStat) Misses() int {
	return s.RefCount - s.ValidCount
}

// ConfusionMass is the total of the confusion counts.
func (s LabelStat) ConfusionMass() int {
	counts := make([]float64, 0, len(s.ConfusedWith))
	for _, c := range s.ConfusedWith {
		counts = append(counts, float64(c))
	}
	return int(floats.Sum(counts))
}

// Confusions lists the labels predicted in place of this one, most frequent first, ties by ascending label.
func (s LabelStat) Confusions() []Confusion {
	mass := float64(s.ConfusionMass())
	l := make([]Confusion, 0, len(s.ConfusedWith))
	for label, count := range s.ConfusedWith {
		l = append(l, Confusion{
			Label: label,
			Count: count,
			Share: 100 * float64(count) / mass,
		})
	}
	sort.Slice(l, func(i, j int) bool {
		if l[i].Count != l[j].Count {
			return l[i].Count > l[j].Count
		}
		return l[i].Label < l[j].Label
	})
	return l
}

func (s LabelStat) clone() LabelStat {
	c := s
	c.ConfusedWith = make(map[themeval.LabelID]int, len(s.ConfusedWith))
	for k, v := range s.ConfusedWith {
		c.ConfusedWith[k] = v
	}
	return c
}

// Tracker accumulates per-label statistics of one run at one depth.
type Tracker struct {
	Run   themeval.Run
	Depth int
	stats map[themeval.LabelID]*LabelStat
}

// NewTracker creates an empty tracker.
func NewTracker(run themeval.Run, depth int) *Tracker {
	return &Tracker{
		Run:   run,
		Depth: depth,
		stats: make(map[themeval.LabelID]*LabelStat),
	}
}

func (t *Tracker) stat(label themeval.LabelID) *LabelStat {
	s, ok := t.stats[label]
	if !ok {
		s = &LabelStat{Label: label, ConfusedWith: make(map[themeval.LabelID]int)}
		t.stats[label] = s
	}
	return s
}

// Observe adds a document. A missed reference label is confused with every label predicted for the document,
// not only the closest one.
func (t *Tracker) Observe(d themeval.Document) {
	predicted := d.Predicted(t.Run, t.Depth)
	reference := d.Reference.For(t.Run)

	in := make(map[themeval.LabelID]bool, len(predicted))
	for _, p := range predicted {
		in[p] = true
	}
	for _, r := range reference {
		s := t.stat(r)
		s.RefCount++
		if in[r] {
			s.ValidCount++
			continue
		}
		if len(predicted) == 0 {
			s.ConfusedWith[themeval.NoLabel]++
			continue
		}
		for _, p := range predicted {
			s.ConfusedWith[p]++
		}
	}
	for _, p := range predicted {
		t.stat(p).PredCount++
	}
}

// Merge adds the statistics of a tracker built over another shard of the corpus.
func (t *Tracker) Merge(other *Tracker) error {
	if other.Run != t.Run || other.Depth != t.Depth {
		return mismatch(t.Run, t.Depth, other.Run, other.Depth)
	}
	for label, o := range other.stats {
		s := t.stat(label)
		s.RefCount += o.RefCount
		s.PredCount += o.PredCount
		s.ValidCount += o.ValidCount
		for k, v := range o.ConfusedWith {
			s.ConfusedWith[k] += v
		}
	}
	return nil
}

// Stat returns the statistics of a label.
func (t *Tracker) Stat(label themeval.LabelID) (LabelStat, bool) {
	s, ok := t.stats[label]
	if !ok {
		return LabelStat{}, false
	}
	return s.clone(), true
}

// Stats returns the statistics of every label seen, ordered by label.
func (t *Tracker) Stats() []LabelStat {
	l := make([]LabelStat, 0, len(t.stats))
	for _, s := range t.stats {
		l = append(l, s.clone())
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].Label < l[j].Label
	})
	return l
}

// Macro holds per-label scores averaged over the labels.
type Macro struct {
	Precision Score `json:"p" yaml:"p"`
	Recall    Score `json:"r" yaml:"r"`
	F1        Score `json:"f1" yaml:"f1"`
}

// MacroAverage averages per-label precision, recall and F1. Labels where precision or recall is undefined do not
// count towards that score's mean. Every label never correctly predicted counts as 0 in the F1 mean, whether or
// not its own F1 is defined.
func MacroAverage(stats []LabelStat) Macro {
	var p, r, f []float64
	for _, s := range stats {
		if v := s.Precision(); v.Defined {
			p = append(p, v.Value)
		}
		if v := s.Recall(); v.Defined {
			r = append(r, v.Value)
		}
		if s.ValidCount == 0 {
			f = append(f, 0)
		} else if v := s.F1(); v.Defined {
			f = append(f, v.Value)
		}
	}
	return Macro{Precision: mean(p), Recall: mean(r), F1: mean(f)}
}

func mean(x []float64) Score {
	if len(x) == 0 {
		return NA
	}
	return Defined(stat.Mean(x, nil))
}
