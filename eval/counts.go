package eval

import (
	"sort"

	"github.com/hscells/themeval"
	"github.com/xtgo/set"
)

// Counts are the corpus-wide sums a micro-averaged metric is computed from. Counts from disjoint shards of a
// corpus can be merged with Add in any order.
type Counts struct {
	Valid     int `json:"valid" yaml:"valid"`
	Reference int `json:"reference" yaml:"reference"`
	Predicted int `json:"predicted" yaml:"predicted"`
}

// Add merges other into c.
func (c *Counts) Add(other Counts) {
	c.Valid += other.Valid
	c.Reference += other.Reference
	c.Predicted += other.Predicted
}

type labels []themeval.LabelID

func (l labels) Len() int {
	return len(l)
}

func (l labels) Less(i, j int) bool {
	return l[i] < l[j]
}

func (l labels) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

// uniq returns a sorted, duplicate free copy of l.
func uniq(l []themeval.LabelID) labels {
	c := make(labels, len(l))
	copy(c, l)
	sort.Sort(c)
	return c[:set.Uniq(c)]
}

// Overlap is the size of the intersection of the two lists taken as sets.
func Overlap(predicted, reference []themeval.LabelID) int {
	if len(predicted) == 0 || len(reference) == 0 {
		return 0
	}
	p := uniq(predicted)
	r := uniq(reference)
	pivot := len(p)
	data := append(p, r...)
	return set.Inter(data, pivot)
}

// Observe computes the counts of a single document for a run at depth n.
//
// Valid is a set intersection but Predicted is the raw length of the truncated ranking, so a label predicted twice
// costs precision without being able to earn it twice. This differs from a naive set precision on purpose.
func Observe(d themeval.Document, run themeval.Run, n int) Counts {
	predicted := d.Predicted(run, n)
	reference := d.Reference.For(run)
	return Counts{
		Valid:     Overlap(predicted, reference),
		Reference: len(reference),
		Predicted: len(predicted),
	}
}

// Accumulator sums the counts of one run at one depth over a corpus.
type Accumulator struct {
	Run    themeval.Run
	Depth  int
	Counts Counts
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator(run themeval.Run, depth int) *Accumulator {
	return &Accumulator{Run: run, Depth: depth}
}

// Observe adds a document.
func (a *Accumulator) Observe(d themeval.Document) {
	a.Counts.Add(Observe(d, a.Run, a.Depth))
}

// Merge adds the counts of an accumulator built over another shard of the corpus.
func (a *Accumulator) Merge(other *Accumulator) error {
	if other.Run != a.Run || other.Depth != a.Depth {
		return mismatch(a.Run, a.Depth, other.Run, other.Depth)
	}
	a.Counts.Add(other.Counts)
	return nil
}

// Metric computes precision, recall and F1 from the accumulated counts.
func (a *Accumulator) Metric() (Metric, error) {
	return Aggregate(a.Run, a.Depth, a.Counts)
}
