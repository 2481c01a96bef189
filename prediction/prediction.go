// Package prediction parses the ranked theme and subtheme predictions of a system.
package prediction

import (
	"os"
	"sort"

	"github.com/hscells/themeval"
	"github.com/mailru/easyjson"
	"github.com/pkg/errors"
)

// Set holds the predictions of one system, keyed by canonical document id.
type Set struct {
	preds map[themeval.DocID]themeval.Prediction
	// keys remembers how each id was spelled in the file, for diagnostics.
	keys map[themeval.DocID]string
}

// NewSet builds a set from already canonical ids.
func NewSet(preds map[themeval.DocID]themeval.Prediction) *Set {
	s := &Set{
		preds: make(map[themeval.DocID]themeval.Prediction, len(preds)),
		keys:  make(map[themeval.DocID]string, len(preds)),
	}
	for id, p := range preds {
		s.preds[id] = p
	}
	return s
}

// Parse decodes a prediction file held in memory.
func Parse(data []byte) (*Set, error) {
	s := new(Set)
	if err := easyjson.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "parse predictions")
	}
	return s, nil
}

// Load reads the prediction file at path.
func Load(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read predictions")
	}
	s, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}

// Get returns the prediction for a document.
func (s *Set) Get(id themeval.DocID) (themeval.Prediction, bool) {
	p, ok := s.preds[id]
	return p, ok
}

// Key is the document key as it was written in the prediction file.
func (s *Set) Key(id themeval.DocID) string {
	if k, ok := s.keys[id]; ok {
		return k
	}
	return id.String()
}

// Len is the number of predicted documents.
func (s *Set) Len() int {
	return len(s.preds)
}

// IDs returns the predicted document ids in ascending order.
func (s *Set) IDs() []themeval.DocID {
	ids := make([]themeval.DocID, 0, len(s.preds))
	for id := range s.preds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

// SortByScore returns a copy of the set whose rankings are ordered by descending score rather than file order.
func (s *Set) SortByScore() *Set {
	c := &Set{
		preds: make(map[themeval.DocID]themeval.Prediction, len(s.preds)),
		keys:  s.keys,
	}
	for id, p := range s.preds {
		c.preds[id] = themeval.Prediction{
			Theme:     p.Theme.SortedByScore(),
			SubThemes: p.SubThemes.SortedByScore(),
		}
	}
	return c
}
