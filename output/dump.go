package output

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/prediction"
	"github.com/hscells/themeval/reference"
	"github.com/hscells/themeval/taxonomy"
	"github.com/pkg/errors"
)

// Missing marks a system without a prediction for a document in a top-theme dump.
const Missing = "-"

// TopThemes maps every document predicted by at least one system to the top theme of each system, in the order
// the systems were given. Systems without a prediction for a document hold NoLabel and ok false at that index.
type TopThemes struct {
	IDs       []themeval.DocID
	Predicted map[themeval.DocID][]themeval.LabelID
	Present   map[themeval.DocID][]bool
}

// NewTopThemes aligns the prediction sets against the store. A prediction key missing from the store yields an
// *reference.AlignmentError.
func NewTopThemes(store *reference.Store, sets []*prediction.Set) (TopThemes, error) {
	t := TopThemes{
		Predicted: make(map[themeval.DocID][]themeval.LabelID),
		Present:   make(map[themeval.DocID][]bool),
	}
	for i, s := range sets {
		for _, id := range s.IDs() {
			rid, err := store.Resolve(s.Key(id))
			if err != nil {
				return TopThemes{}, err
			}
			if _, ok := t.Predicted[rid]; !ok {
				t.Predicted[rid] = make([]themeval.LabelID, len(sets))
				t.Present[rid] = make([]bool, len(sets))
				for j := range t.Predicted[rid] {
					t.Predicted[rid][j] = themeval.NoLabel
				}
				t.IDs = append(t.IDs, rid)
			}
			p, _ := s.Get(id)
			if top := p.Theme.Top(1); len(top) > 0 {
				t.Predicted[rid][i] = top[0]
			}
			t.Present[rid][i] = true
		}
	}
	sort.Slice(t.IDs, func(i, j int) bool {
		return t.IDs[i] < t.IDs[j]
	})
	return t, nil
}

// Agree is true when every system predicted the same top theme for the document.
func (t TopThemes) Agree(id themeval.DocID) bool {
	predicted, present := t.Predicted[id], t.Present[id]
	if len(predicted) == 0 {
		return false
	}
	for i, l := range predicted {
		if !present[i] || l == themeval.NoLabel || l != predicted[0] {
			return false
		}
	}
	return true
}

// WriteTopThemes writes a tab-separated table with one row per document: the doc id, the reference theme, whether
// the systems agree, then the top theme of each system. Themes are named through tx when it is not nil.
//
// The agree column is true only when every system predicted the same top theme. Older dumps had a unanimity
// column that was true when all the predictions differed, so it cannot be compared to agree directly.
func WriteTopThemes(w io.Writer, store *reference.Store, systems []string, sets []*prediction.Set, tx *taxonomy.Taxonomy) error {
	if len(systems) != len(sets) {
		return errors.Errorf("%d system names for %d prediction sets", len(systems), len(sets))
	}
	t, err := NewTopThemes(store, sets)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(append([]string{"doc_id", "ref", "agree"}, systems...)); err != nil {
		return err
	}
	for _, id := range t.IDs {
		ref, _ := store.Get(id)
		row := []string{id.String(), tx.Name(themeval.Theme, ref.Theme()), strconv.FormatBool(t.Agree(id))}
		for i, l := range t.Predicted[id] {
			if !t.Present[id][i] {
				row = append(row, Missing)
				continue
			}
			row = append(row, tx.Name(themeval.Theme, l))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
