package eval_test

import (
	"testing"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func track(run themeval.Run, depth int, docs []themeval.Document) *eval.Tracker {
	tr := eval.NewTracker(run, depth)
	for _, d := range docs {
		tr.Observe(d)
	}
	return tr
}

func TestConfusionMassEqualsMisses(t *testing.T) {
	for _, run := range themeval.Runs {
		tr := track(run, eval.DefaultConfusionDepth, corpus())
		for _, s := range tr.Stats() {
			assert.Equal(t, s.Misses(), s.ConfusionMass(), "%s label %d", run, s.Label)
		}
	}
}

func TestConfusedWithEveryPrediction(t *testing.T) {
	d := doc(1, themeval.LabelSet{10, 20}, ranking(11), ranking(30, 31, 30))
	tr := track(themeval.SubThemes, 3, []themeval.Document{d})

	s, ok := tr.Stat(20)
	require.True(t, ok)
	assert.Equal(t, map[themeval.LabelID]int{30: 2, 31: 1}, s.ConfusedWith)

	s, _ = tr.Stat(30)
	assert.Equal(t, 2, s.PredCount)
}

func TestNothingPredicted(t *testing.T) {
	d := doc(1, themeval.LabelSet{10, 20}, ranking(), ranking())
	tr := track(themeval.Theme, 1, []themeval.Document{d})
	s, ok := tr.Stat(10)
	require.True(t, ok)
	assert.Equal(t, map[themeval.LabelID]int{themeval.NoLabel: 1}, s.ConfusedWith)
	_, ok = tr.Stat(themeval.NoLabel)
	assert.False(t, ok)
}

func TestLabelScores(t *testing.T) {
	docs := []themeval.Document{
		doc(1, themeval.LabelSet{10}, ranking(10), nil),
		doc(2, themeval.LabelSet{10}, ranking(11), nil),
		doc(3, themeval.LabelSet{11}, ranking(11), nil),
		doc(4, themeval.LabelSet{12}, ranking(11), nil),
		doc(5, themeval.LabelSet{13}, ranking(14), nil),
	}
	tr := track(themeval.Theme, 1, docs)

	s, _ := tr.Stat(10)
	assert.Equal(t, eval.Defined(1), s.Precision())
	assert.Equal(t, eval.Defined(0.5), s.Recall())
	assert.InDelta(t, 2.0/3.0, s.F1().Value, 1e-12)

	s, _ = tr.Stat(11)
	assert.InDelta(t, 1.0/3.0, s.Precision().Value, 1e-12)
	assert.Equal(t, eval.Defined(1), s.Recall())

	// Predicted and referenced but never right: F1 is 0, not undefined.
	both := eval.LabelStat{Label: 7, RefCount: 2, PredCount: 3}
	assert.Equal(t, eval.Defined(0), both.F1())

	// Never predicted: precision and F1 are undefined.
	s, _ = tr.Stat(12)
	assert.Equal(t, eval.NA, s.Precision())
	assert.Equal(t, eval.Defined(0), s.Recall())
	assert.Equal(t, eval.NA, s.F1())

	// Never in the reference: recall is undefined.
	s, _ = tr.Stat(14)
	assert.Equal(t, eval.Defined(0), s.Precision())
	assert.Equal(t, eval.NA, s.Recall())

	labels := make([]themeval.LabelID, 0)
	for _, s := range tr.Stats() {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []themeval.LabelID{10, 11, 12, 13, 14}, labels)
}

func TestConfusionsOrder(t *testing.T) {
	s := eval.LabelStat{
		Label:        1,
		RefCount:     8,
		ConfusedWith: map[themeval.LabelID]int{5: 2, 3: 4, 4: 2},
	}
	c := s.Confusions()
	require.Len(t, c, 3)
	assert.Equal(t, eval.Confusion{Label: 3, Count: 4, Share: 50}, c[0])
	assert.Equal(t, eval.Confusion{Label: 4, Count: 2, Share: 25}, c[1])
	assert.Equal(t, eval.Confusion{Label: 5, Count: 2, Share: 25}, c[2])

	assert.Empty(t, eval.LabelStat{Label: 2}.Confusions())
}

func TestTrackerMerge(t *testing.T) {
	docs := corpus()
	whole := track(themeval.SubThemes, 2, docs)
	left := track(themeval.SubThemes, 2, docs[:2])
	right := track(themeval.SubThemes, 2, docs[2:])
	require.NoError(t, left.Merge(right))
	assert.Equal(t, whole.Stats(), left.Stats())

	assert.Error(t, left.Merge(eval.NewTracker(themeval.Theme, 2)))
}

func TestStatsAreCopies(t *testing.T) {
	tr := track(themeval.SubThemes, 1, corpus())
	s, _ := tr.Stat(20)
	s.ConfusedWith[12345] = 1
	again, _ := tr.Stat(20)
	_, ok := again.ConfusedWith[12345]
	assert.False(t, ok)
}

func TestMacroAverage(t *testing.T) {
	stats := []eval.LabelStat{
		{Label: 1, RefCount: 2, PredCount: 2, ValidCount: 2},
		{Label: 2, RefCount: 2, PredCount: 0},
		{Label: 3, RefCount: 0, PredCount: 2},
	}
	m := eval.MacroAverage(stats)
	assert.Equal(t, eval.Defined(0.5), m.Precision)
	assert.Equal(t, eval.Defined(0.5), m.Recall)
	assert.InDelta(t, 1.0/3.0, m.F1.Value, 1e-9)

	assert.Equal(t, eval.Macro{Precision: eval.NA, Recall: eval.NA, F1: eval.NA}, eval.MacroAverage(nil))
}

// Labels 11 to 14 are each missed or wrongly predicted once and have no defined F1 of their own.
func TestMacroF1NotAbovePrecisionAndRecall(t *testing.T) {
	tr := eval.NewTracker(themeval.Theme, 1)
	for i, pair := range [][2]themeval.LabelID{{10, 10}, {11, 12}, {13, 14}} {
		tr.Observe(themeval.Document{
			ID:         themeval.DocID(i + 1),
			Reference:  themeval.LabelSet{pair[0]},
			Prediction: themeval.Prediction{Theme: themeval.Ranking{{Label: pair[1], Score: 1}}},
		})
	}
	for _, s := range tr.Stats() {
		if s.Label != 10 {
			assert.Equal(t, eval.NA, s.F1(), "label %d", s.Label)
		}
	}

	m := eval.MacroAverage(tr.Stats())
	assert.InDelta(t, 1.0/3.0, m.Precision.Value, 1e-9)
	assert.InDelta(t, 1.0/3.0, m.Recall.Value, 1e-9)
	assert.InDelta(t, 0.2, m.F1.Value, 1e-9)
	assert.LessOrEqual(t, m.F1.Value, m.Precision.Value)
	assert.LessOrEqual(t, m.F1.Value, m.Recall.Value)
}
