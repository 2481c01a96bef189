package reference

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hscells/themeval"
	"github.com/pkg/errors"
)

// AlignmentError is returned when a predicted document has no reference annotation. Evaluation cannot continue
// past it: skipping the document would silently change the corpus-wide denominators.
type AlignmentError struct {
	Key interface{}
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("cannot find predicted doc id %v in the reference; doc ids and label ids must be integers "+
		"(or strings holding base-10 integers)", e.Key)
}

// ParseDocID turns a document key in any of its accepted forms (integer kinds, integral floats, json.Number, or a
// string holding a base-10 integer) into the canonical DocID.
func ParseDocID(raw interface{}) (themeval.DocID, error) {
	switch v := raw.(type) {
	case themeval.DocID:
		return v, nil
	case int:
		return themeval.DocID(v), nil
	case int32:
		return themeval.DocID(v), nil
	case int64:
		return themeval.DocID(v), nil
	case uint32:
		return themeval.DocID(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, errors.Errorf("doc id %d overflows", v)
		}
		return themeval.DocID(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, errors.Errorf("doc id %v is not an integer", v)
		}
		return themeval.DocID(v), nil
	case json.Number:
		return ParseDocID(string(v))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, errors.Errorf("doc id %q is not an integer", v)
		}
		return themeval.DocID(i), nil
	}
	return 0, errors.Errorf("unsupported doc id %v of type %T", raw, raw)
}

// Resolve normalizes a prediction-side key and checks it against the store. Keys that do not parse, or that are
// not annotated, yield an *AlignmentError.
func (s *Store) Resolve(raw interface{}) (themeval.DocID, error) {
	id, err := ParseDocID(raw)
	if err != nil {
		return 0, &AlignmentError{Key: raw}
	}
	if !s.Contains(id) {
		return 0, &AlignmentError{Key: raw}
	}
	return id, nil
}
