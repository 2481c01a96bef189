package themeval

import "sort"

// ScoredLabel is a predicted label with its confidence.
type ScoredLabel struct {
	Label LabelID
	Score float64
}

// Ranking is an ordered list of predictions, most confident first. Only the order matters for scoring.
type Ranking []ScoredLabel

// Top returns the ids of the first n predictions. Order is kept and duplicates are not removed.
func (r Ranking) Top(n int) []LabelID {
	if n <= 0 {
		return []LabelID{}
	}
	if n > len(r) {
		n = len(r)
	}
	ids := make([]LabelID, n)
	for i := 0; i < n; i++ {
		ids[i] = r[i].Label
	}
	return ids
}

// SortedByScore returns a copy of the ranking sorted by descending score. Ties keep their original order.
func (r Ranking) SortedByScore() Ranking {
	s := make(Ranking, len(r))
	copy(s, r)
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Score > s[j].Score
	})
	return s
}

// Prediction holds the two independent rankings predicted for a document.
type Prediction struct {
	Theme     Ranking
	SubThemes Ranking
}

// Ranking returns the ranking for a run.
func (p Prediction) Ranking(run Run) Ranking {
	switch run {
	case Theme:
		return p.Theme
	case SubThemes:
		return p.SubThemes
	}
	return nil
}

// Document is a prediction aligned with its reference annotation.
type Document struct {
	ID         DocID
	Reference  LabelSet
	Prediction Prediction
}

// Predicted is the top-n of the document's ranking for a run.
func (d Document) Predicted(run Run, n int) []LabelID {
	return d.Prediction.Ranking(run).Top(n)
}
