package taxonomy

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hscells/themeval"
	"github.com/mailru/easyjson/jlexer"
	"github.com/pkg/errors"
)

// Resource file names inside a taxonomy directory.
const (
	ThemesFile    = "themes.tsv"
	SubThemesFile = "subthemes.tsv"
	RelationsFile = "theme_soustheme_relationship.json"
)

// Load reads a taxonomy from the resource directory dir.
func Load(dir string) (*Taxonomy, error) {
	if _, err := os.Stat(filepath.Join(dir, ThemesFile)); err != nil {
		return nil, errors.Wrapf(err, "install the taxonomy resource files in %s", dir)
	}

	var (
		themes    []Theme
		subthemes []SubTheme
		relations []Relation
	)
	err := withFile(filepath.Join(dir, ThemesFile), func(r io.Reader) (err error) {
		themes, err = ReadThemes(r)
		return
	})
	if err != nil {
		return nil, err
	}
	err = withFile(filepath.Join(dir, SubThemesFile), func(r io.Reader) (err error) {
		subthemes, err = ReadSubThemes(r)
		return
	})
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(dir, RelationsFile))
	if err != nil {
		return nil, errors.Wrap(err, "read relations")
	}
	relations, err = ParseRelations(b)
	if err != nil {
		return nil, errors.Wrap(err, RelationsFile)
	}
	return New(themes, subthemes, relations)
}

func withFile(path string, fn func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open taxonomy")
	}
	defer f.Close()
	return errors.Wrap(fn(f), filepath.Base(path))
}

func tsvReader(r io.Reader) *csv.Reader {
	c := csv.NewReader(r)
	c.Comma = '\t'
	c.FieldsPerRecord = -1
	c.LazyQuotes = true
	return c
}

// readRows calls fn with the fields of every non-empty row holding at least minFields fields.
func readRows(r io.Reader, minFields int, fn func(fields []string) error) error {
	c := tsvReader(r)
	for {
		fields, err := c.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		line, _ := c.FieldPos(0)
		if len(fields) < minFields {
			return errors.Errorf("line %d: expected at least %d fields, got %d", line, minFields, len(fields))
		}
		if err := fn(fields); err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
}

func parseID(s string) (themeval.LabelID, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Errorf("label id %q is not an integer", s)
	}
	return themeval.LabelID(i), nil
}

// ReadThemes reads theme rows: id, name, codename, active.
func ReadThemes(r io.Reader) ([]Theme, error) {
	var themes []Theme
	err := readRows(r, 4, func(fields []string) error {
		id, err := parseID(fields[0])
		if err != nil {
			return err
		}
		themes = append(themes, Theme{
			ID:       id,
			Name:     strings.TrimSpace(fields[1]),
			Codename: strings.TrimSpace(fields[2]),
			Active:   strings.TrimSpace(fields[3]) == "1",
		})
		return nil
	})
	return themes, err
}

// ReadSubThemes reads subtheme rows: id, name, codename, active and an optional comment.
func ReadSubThemes(r io.Reader) ([]SubTheme, error) {
	var subthemes []SubTheme
	err := readRows(r, 4, func(fields []string) error {
		id, err := parseID(fields[0])
		if err != nil {
			return err
		}
		st := SubTheme{
			ID:       id,
			Name:     strings.TrimSpace(fields[1]),
			Codename: strings.TrimSpace(fields[2]),
			Active:   strings.TrimSpace(fields[3]) == "1",
		}
		if len(fields) >= 5 {
			st.Comment = strings.TrimSpace(fields[4])
		}
		subthemes = append(subthemes, st)
		return nil
	})
	return subthemes, err
}

// ParseRelations decodes the theme to subtheme relationship document:
// [{"ThemeId": 1, "SubThemeIds": [2, 3]}, ...]. Ids may be numbers or numeric strings.
func ParseRelations(data []byte) ([]Relation, error) {
	in := jlexer.Lexer{Data: data}
	var out []Relation
	easyjsonDecodeRelations(&in, &out)
	return out, in.Error()
}

func easyjsonDecodeRelations(in *jlexer.Lexer, out *[]Relation) {
	isTopLevel := in.IsStart()
	in.Delim('[')
	for !in.IsDelim(']') {
		var v Relation
		easyjsonDecodeRelation(in, &v)
		*out = append(*out, v)
		in.WantComma()
	}
	in.Delim(']')
	if isTopLevel {
		in.Consumed()
	}
}

func easyjsonDecodeRelation(in *jlexer.Lexer, out *Relation) {
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
		case "ThemeId":
			id, err := themeval.ParseLabelID(in.JsonNumber())
			if err != nil {
				in.AddError(err)
				return
			}
			out.Theme = id
		case "SubThemeIds":
			in.Delim('[')
			for !in.IsDelim(']') {
				id, err := themeval.ParseLabelID(in.JsonNumber())
				if err != nil {
					in.AddError(err)
					return
				}
				out.SubThemes = append(out.SubThemes, id)
				in.WantComma()
			}
			in.Delim(']')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}
