package eval

import (
	"encoding/json"
	"strconv"
)

// Score is a metric value that may be undefined, e.g. a precision computed over zero predictions.
type Score struct {
	Value   float64
	Defined bool
}

// NA is the undefined score, reported as "n.a.".
var NA = Score{}

// Defined wraps a computed value.
func Defined(v float64) Score {
	return Score{Value: v, Defined: true}
}

// Format renders the score with prec decimals, or "n.a.".
func (s Score) Format(prec int) string {
	if !s.Defined {
		return "n.a."
	}
	return strconv.FormatFloat(s.Value, 'f', prec, 64)
}

func (s Score) String() string {
	return s.Format(3)
}

// MarshalJSON writes undefined scores as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// MarshalYAML writes undefined scores as null.
func (s Score) MarshalYAML() (interface{}, error) {
	if !s.Defined {
		return nil, nil
	}
	return s.Value, nil
}
