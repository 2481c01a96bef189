package output

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/reference"
	"github.com/hscells/themeval/taxonomy"
	"gonum.org/v1/gonum/mat"
)

// NoSubTheme is the row of documents annotated without any subtheme.
const NoSubTheme themeval.LabelID = 0

// ThemeMatrix counts how often each subtheme is annotated together with each theme in a reference store.
type ThemeMatrix struct {
	SubThemes []themeval.LabelID
	Themes    []themeval.LabelID
	rows      map[themeval.LabelID]int
	cols      map[themeval.LabelID]int
	counts    *mat.Dense
}

func index(ids []themeval.LabelID) map[themeval.LabelID]int {
	m := make(map[themeval.LabelID]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

func sortedKeys(m map[themeval.LabelID]bool) []themeval.LabelID {
	l := make([]themeval.LabelID, 0, len(m))
	for id := range m {
		l = append(l, id)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i] < l[j]
	})
	return l
}

// NewThemeMatrix builds the subtheme by theme co-occurrence matrix of store. When tx is given the axes are the
// labels of the taxonomy and annotations outside it are not counted; otherwise the axes are the labels seen.
func NewThemeMatrix(store *reference.Store, tx *taxonomy.Taxonomy) *ThemeMatrix {
	themes := make(map[themeval.LabelID]bool)
	subthemes := map[themeval.LabelID]bool{NoSubTheme: true}
	if tx != nil {
		for _, th := range tx.Themes() {
			themes[th.ID] = true
		}
		for _, st := range tx.SubThemes() {
			subthemes[st.ID] = true
		}
	} else {
		for _, id := range store.IDs() {
			ref, _ := store.Get(id)
			themes[ref.Theme()] = true
			for _, st := range ref.SubThemes() {
				subthemes[st] = true
			}
		}
	}

	m := &ThemeMatrix{
		SubThemes: sortedKeys(subthemes),
		Themes:    sortedKeys(themes),
	}
	m.rows, m.cols = index(m.SubThemes), index(m.Themes)
	if len(m.Themes) == 0 {
		return m
	}
	m.counts = mat.NewDense(len(m.SubThemes), len(m.Themes), nil)

	for _, id := range store.IDs() {
		ref, _ := store.Get(id)
		j, ok := m.cols[ref.Theme()]
		if !ok {
			continue
		}
		subs := ref.SubThemes()
		if len(subs) == 0 {
			subs = []themeval.LabelID{NoSubTheme}
		}
		for _, st := range subs {
			if i, ok := m.rows[st]; ok {
				m.counts.Set(i, j, m.counts.At(i, j)+1)
			}
		}
	}
	return m
}

// Count is the number of documents annotated with both the subtheme and the theme.
func (m *ThemeMatrix) Count(subtheme, theme themeval.LabelID) int {
	i, ok := m.rows[subtheme]
	j, ok2 := m.cols[theme]
	if !ok || !ok2 || m.counts == nil {
		return 0
	}
	return int(m.counts.At(i, j))
}

// Total is the number of documents annotated with the subtheme, over all themes.
func (m *ThemeMatrix) Total(subtheme themeval.LabelID) int {
	i, ok := m.rows[subtheme]
	if !ok || m.counts == nil {
		return 0
	}
	return int(mat.Sum(m.counts.RowView(i)))
}

// Write writes the matrix as a tab-separated table: the subtheme id, its codename and total, then one column per
// theme headed by the theme codename.
func (m *ThemeMatrix) Write(w io.Writer, tx *taxonomy.Taxonomy) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	header := []string{"subtheme_id", "codename", "total"}
	for _, th := range m.Themes {
		header = append(header, tx.Codename(themeval.Theme, th))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, st := range m.SubThemes {
		codename := "no_subtheme"
		if st != NoSubTheme {
			codename = tx.Codename(themeval.SubThemes, st)
		}
		row := []string{st.String(), codename, strconv.Itoa(m.Total(st))}
		for _, th := range m.Themes {
			row = append(row, strconv.Itoa(m.Count(st, th)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
