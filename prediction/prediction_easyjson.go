package prediction

import (
	"github.com/hscells/themeval"
	"github.com/hscells/themeval/reference"
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/pkg/errors"
)

var _ easyjson.Unmarshaler = (*Set)(nil)

func easyjsonDecodeSet(in *jlexer.Lexer, out *Set) {
	isTopLevel := in.IsStart()
	out.preds = make(map[themeval.DocID]themeval.Prediction)
	out.keys = make(map[themeval.DocID]string)
	in.Delim('{')
	for !in.IsDelim('}') {
		key := string(in.String())
		in.WantColon()
		id, err := reference.ParseDocID(key)
		if err != nil {
			in.AddError(err)
			break
		}
		if prev, ok := out.keys[id]; ok {
			in.AddError(errors.Errorf("doc ids %q and %q name the same document", prev, key))
			break
		}
		var p themeval.Prediction
		easyjsonDecodePrediction(in, &p)
		out.preds[id] = p
		out.keys[id] = key
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func easyjsonDecodePrediction(in *jlexer.Lexer, out *themeval.Prediction) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case string(themeval.Theme):
			easyjsonDecodeRanking(in, &out.Theme)
		case string(themeval.SubThemes):
			easyjsonDecodeRanking(in, &out.SubThemes)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func easyjsonDecodeRanking(in *jlexer.Lexer, out *themeval.Ranking) {
	in.Delim('[')
	if !in.IsDelim(']') {
		*out = make(themeval.Ranking, 0, 8)
	} else {
		*out = themeval.Ranking{}
	}
	for !in.IsDelim(']') {
		var v themeval.ScoredLabel
		easyjsonDecodeScoredLabel(in, &v)
		*out = append(*out, v)
		in.WantComma()
	}
	in.Delim(']')
}

// easyjsonDecodeScoredLabel decodes a [labelId, score] pair. Elements past the score are ignored.
func easyjsonDecodeScoredLabel(in *jlexer.Lexer, out *themeval.ScoredLabel) {
	in.Delim('[')
	if in.IsDelim(']') {
		in.AddError(errors.New("empty prediction, expected [labelId, score]"))
		return
	}
	label, err := themeval.ParseLabelID(in.JsonNumber())
	if err != nil {
		in.AddError(err)
		return
	}
	out.Label = label
	in.WantComma()
	if !in.IsDelim(']') {
		score, err := in.JsonNumber().Float64()
		if err != nil {
			in.AddError(errors.Wrap(err, "prediction score"))
			return
		}
		out.Score = score
		in.WantComma()
	}
	for !in.IsDelim(']') {
		in.SkipRecursive()
		in.WantComma()
	}
	in.Delim(']')
}

// UnmarshalJSON supports json.Unmarshaler interface
func (s *Set) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	easyjsonDecodeSet(&r, s)
	return r.Error()
}

// UnmarshalEasyJSON supports easyjson.Unmarshaler interface
func (s *Set) UnmarshalEasyJSON(l *jlexer.Lexer) {
	easyjsonDecodeSet(l, s)
}
