package reference

import (
	"os"

	"github.com/hscells/themeval"
	"github.com/mailru/easyjson/jlexer"
	"github.com/pkg/errors"
)

// ParseJSON reads a reference mapping written as a JSON object of doc id to label list, the theme first and the
// subthemes after it, e.g. {"42": [10, 20, 21]}.
func ParseJSON(data []byte) (*Store, error) {
	in := jlexer.Lexer{Data: data}
	refs := make(map[themeval.DocID]themeval.LabelSet)
	easyjsonDecodeRefs(&in, refs)
	if err := in.Error(); err != nil {
		return nil, errors.Wrap(err, "parse reference")
	}
	return &Store{refs: refs}, nil
}

// LoadJSON reads a JSON reference mapping from a file.
func LoadJSON(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read reference")
	}
	s, err := ParseJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return s, nil
}

func easyjsonDecodeRefs(in *jlexer.Lexer, out map[themeval.DocID]themeval.LabelSet) {
	isTopLevel := in.IsStart()
	keys := make(map[themeval.DocID]string)
	in.Delim('{')
	for !in.IsDelim('}') {
		key := string(in.String())
		in.WantColon()
		id, err := ParseDocID(key)
		if err != nil {
			in.AddError(err)
			break
		}
		if prev, ok := keys[id]; ok {
			in.AddError(errors.Errorf("doc ids %q and %q name the same document", prev, key))
			break
		}
		var labels themeval.LabelSet
		easyjsonDecodeLabelSet(in, &labels)
		if in.Ok() && len(labels) == 0 {
			in.AddError(errors.Errorf("doc %s has no reference label", key))
			break
		}
		out[id] = labels
		keys[id] = key
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func easyjsonDecodeLabelSet(in *jlexer.Lexer, out *themeval.LabelSet) {
	in.Delim('[')
	for !in.IsDelim(']') {
		l, err := themeval.ParseLabelID(in.JsonNumber())
		if err != nil {
			in.AddError(err)
			return
		}
		*out = append(*out, l)
		in.WantComma()
	}
	in.Delim(']')
}
