// Package themeval evaluates predicted themes and subthemes of news articles against a reference annotation.
//
// The root package holds the data model shared by the reference store, the prediction parser, the evaluation
// measures and the reporters.
package themeval

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// DocID is the canonical key of a document.
type DocID int64

// LabelID identifies a theme or a subtheme. Theme ids and subtheme ids live in disjoint spaces and are never
// compared with each other.
type LabelID int64

func (d DocID) String() string {
	return strconv.FormatInt(int64(d), 10)
}

func (l LabelID) String() string {
	if l == NoLabel {
		return "none"
	}
	return strconv.FormatInt(int64(l), 10)
}

// ParseLabelID converts a JSON number, or a string holding one, to a label id. Integral floats are accepted.
func ParseLabelID(n json.Number) (LabelID, error) {
	if i, err := n.Int64(); err == nil {
		return LabelID(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("label id %q is not an integer", string(n))
	}
	return LabelID(f), nil
}

// NoLabel stands in for "nothing was predicted" wherever a label is expected.
const NoLabel LabelID = -1

// Run selects which of the two label spaces is evaluated.
type Run string

const (
	Theme     Run = "theme"
	SubThemes Run = "sub_themes"
)

// Runs lists the runs in the order they are reported.
var Runs = []Run{Theme, SubThemes}

// Title is the heading a run is reported under.
func (r Run) Title() string {
	switch r {
	case Theme:
		return "Themes"
	case SubThemes:
		return "SubThemes"
	}
	return string(r)
}

// ParseRun parses the name of a run.
func ParseRun(s string) (Run, error) {
	switch Run(s) {
	case Theme, SubThemes:
		return Run(s), nil
	}
	return "", errors.Errorf("unknown run %q, expected %q or %q", s, Theme, SubThemes)
}

// Evaluation depths (the N of top-N).
const (
	MinDepth = 1
	MaxDepth = 5
)

// DefaultDepths are the cutoffs evaluated when none are configured.
func DefaultDepths() []int {
	d := make([]int, 0, MaxDepth)
	for n := MinDepth; n <= MaxDepth; n++ {
		d = append(d, n)
	}
	return d
}

// ValidateDepths checks that every depth is within [MinDepth, MaxDepth] and returns them sorted and unique.
func ValidateDepths(depths []int) ([]int, error) {
	if len(depths) == 0 {
		return nil, errors.New("no evaluation depth given")
	}
	seen := make(map[int]bool)
	out := make([]int, 0, len(depths))
	for _, n := range depths {
		if n < MinDepth || n > MaxDepth {
			return nil, errors.Errorf("evaluation depth %d out of range [%d, %d]", n, MinDepth, MaxDepth)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// LabelSet is the reference annotation of one document: element 0 is the theme, the rest are subthemes.
type LabelSet []LabelID

// Theme is the reference theme, or NoLabel for an empty set.
func (l LabelSet) Theme() LabelID {
	if len(l) == 0 {
		return NoLabel
	}
	return l[0]
}

// SubThemes is the (possibly empty) subtheme tail.
func (l LabelSet) SubThemes() []LabelID {
	if len(l) < 2 {
		return []LabelID{}
	}
	return l[1:]
}

// For returns the reference labels a run is scored against.
func (l LabelSet) For(run Run) []LabelID {
	switch run {
	case Theme:
		if len(l) == 0 {
			return []LabelID{}
		}
		return []LabelID{l[0]}
	case SubThemes:
		return l.SubThemes()
	}
	return []LabelID{}
}
