// Package reference loads the held-out annotation predictions are evaluated against.
package reference

import (
	"sort"

	"github.com/hscells/themeval"
)

// Store maps documents to their reference labels. A Store is never modified once built.
type Store struct {
	refs map[themeval.DocID]themeval.LabelSet
}

// NewStore builds a store from a mapping. The mapping is copied.
func NewStore(refs map[themeval.DocID]themeval.LabelSet) *Store {
	s := &Store{refs: make(map[themeval.DocID]themeval.LabelSet, len(refs))}
	for id, labels := range refs {
		l := make(themeval.LabelSet, len(labels))
		copy(l, labels)
		s.refs[id] = l
	}
	return s
}

// Get returns the reference labels of a document. The returned slice must not be modified.
func (s *Store) Get(id themeval.DocID) (themeval.LabelSet, bool) {
	l, ok := s.refs[id]
	return l, ok
}

// Contains reports whether the document has a reference annotation.
func (s *Store) Contains(id themeval.DocID) bool {
	_, ok := s.refs[id]
	return ok
}

// Len is the number of annotated documents.
func (s *Store) Len() int {
	return len(s.refs)
}

// IDs returns every document id in ascending order.
func (s *Store) IDs() []themeval.DocID {
	ids := make([]themeval.DocID, 0, len(s.refs))
	for id := range s.refs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}
