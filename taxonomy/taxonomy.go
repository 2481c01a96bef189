// Package taxonomy describes the themes and subthemes articles are labelled with.
package taxonomy

import (
	"sort"

	"github.com/hscells/themeval"
	"github.com/pkg/errors"
)

// ErrMultipleParents is returned when a subtheme is attached to more than one theme.
var ErrMultipleParents = errors.New("subtheme has more than one parent theme")

// Theme is a primary category.
type Theme struct {
	ID       themeval.LabelID
	Name     string
	Codename string
	Active   bool
	// SubThemes are the children of the theme, as loosely followed by the editors.
	SubThemes []themeval.LabelID
}

// SubTheme is a secondary category.
type SubTheme struct {
	ID       themeval.LabelID
	Name     string
	Codename string
	Active   bool
	Comment  string
	// Theme is the parent theme, NoLabel when there is none.
	Theme themeval.LabelID
}

// Relation attaches subthemes to a theme.
type Relation struct {
	Theme     themeval.LabelID
	SubThemes []themeval.LabelID
}

// Taxonomy is the immutable set of themes and subthemes. It is built once and passed to whatever needs label
// metadata.
type Taxonomy struct {
	themes    map[themeval.LabelID]Theme
	subthemes map[themeval.LabelID]SubTheme
}

// New builds a taxonomy and links subthemes to their parent theme.
func New(themes []Theme, subthemes []SubTheme, relations []Relation) (*Taxonomy, error) {
	t := &Taxonomy{
		themes:    make(map[themeval.LabelID]Theme, len(themes)),
		subthemes: make(map[themeval.LabelID]SubTheme, len(subthemes)),
	}
	for _, th := range themes {
		if _, ok := t.themes[th.ID]; ok {
			return nil, errors.Errorf("duplicate theme %d", th.ID)
		}
		th.SubThemes = nil
		t.themes[th.ID] = th
	}
	for _, st := range subthemes {
		if _, ok := t.subthemes[st.ID]; ok {
			return nil, errors.Errorf("duplicate subtheme %d", st.ID)
		}
		st.Theme = themeval.NoLabel
		t.subthemes[st.ID] = st
	}
	for _, rel := range relations {
		th, ok := t.themes[rel.Theme]
		if !ok {
			return nil, errors.Errorf("relation names unknown theme %d", rel.Theme)
		}
		children := make([]themeval.LabelID, 0, len(rel.SubThemes))
		for _, id := range rel.SubThemes {
			st, ok := t.subthemes[id]
			if !ok {
				return nil, errors.Errorf("relation of theme %d names unknown subtheme %d", rel.Theme, id)
			}
			if st.Theme != themeval.NoLabel {
				return nil, errors.Wrapf(ErrMultipleParents, "subtheme %d has parents %d and %d", id, st.Theme, rel.Theme)
			}
			st.Theme = rel.Theme
			t.subthemes[id] = st
			children = append(children, id)
		}
		th.SubThemes = append(th.SubThemes, children...)
		t.themes[rel.Theme] = th
	}
	return t, nil
}

// Theme looks up a theme.
func (t *Taxonomy) Theme(id themeval.LabelID) (Theme, bool) {
	th, ok := t.themes[id]
	return th, ok
}

// SubTheme looks up a subtheme.
func (t *Taxonomy) SubTheme(id themeval.LabelID) (SubTheme, bool) {
	st, ok := t.subthemes[id]
	return st, ok
}

// Name is the display name of a label of the given run, or its id when the label is unknown.
func (t *Taxonomy) Name(run themeval.Run, id themeval.LabelID) string {
	if t != nil {
		switch run {
		case themeval.Theme:
			if th, ok := t.themes[id]; ok {
				return th.Name
			}
		case themeval.SubThemes:
			if st, ok := t.subthemes[id]; ok {
				return st.Name
			}
		}
	}
	return id.String()
}

// Codename is the short identifier of a label of the given run, or its id when the label is unknown.
func (t *Taxonomy) Codename(run themeval.Run, id themeval.LabelID) string {
	if t != nil {
		switch run {
		case themeval.Theme:
			if th, ok := t.themes[id]; ok {
				return th.Codename
			}
		case themeval.SubThemes:
			if st, ok := t.subthemes[id]; ok {
				return st.Codename
			}
		}
	}
	return id.String()
}

// Themes returns every theme ordered by id.
func (t *Taxonomy) Themes() []Theme {
	l := make([]Theme, 0, len(t.themes))
	for _, th := range t.themes {
		l = append(l, th)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].ID < l[j].ID
	})
	return l
}

// SubThemes returns every subtheme ordered by id.
func (t *Taxonomy) SubThemes() []SubTheme {
	l := make([]SubTheme, 0, len(t.subthemes))
	for _, st := range t.subthemes {
		l = append(l, st)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].ID < l[j].ID
	})
	return l
}

// ValidTheme reports whether a theme is a usable label: known, active, and not the catch-all theme 0.
func (t *Taxonomy) ValidTheme(id themeval.LabelID) bool {
	th, ok := t.themes[id]
	return ok && id != 0 && th.Active
}

// ValidSubThemes reports whether a non-empty list of subthemes are all known and active.
func (t *Taxonomy) ValidSubThemes(ids []themeval.LabelID) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		st, ok := t.subthemes[id]
		if !ok || !st.Active {
			return false
		}
	}
	return true
}
