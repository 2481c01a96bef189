package output_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/eval"
	"github.com/hscells/themeval/output"
	"github.com/hscells/themeval/prediction"
	"github.com/hscells/themeval/reference"
	"github.com/hscells/themeval/taxonomy"
	"github.com/hscells/trecresults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport(t *testing.T, tx *taxonomy.Taxonomy) output.Report {
	d := themeval.Document{
		ID:        1,
		Reference: themeval.LabelSet{10, 20, 21},
		Prediction: themeval.Prediction{
			Theme:     themeval.Ranking{{Label: 10, Score: 0.9}, {Label: 11, Score: 0.1}},
			SubThemes: themeval.Ranking{{Label: 99, Score: 0.5}, {Label: 20, Score: 0.4}},
		},
	}
	r := output.NewReport("preds.json", 1)
	for _, run := range themeval.Runs {
		metrics, err := eval.Evaluate([]themeval.Document{d}, run, []int{1, 2})
		require.NoError(t, err)
		tr := eval.NewTracker(run, 1)
		tr.Observe(d)
		r.Runs = append(r.Runs, output.NewRunReport(run, metrics, tr, tx))
	}
	return r
}

func TestTextFormatter(t *testing.T) {
	s, err := output.TextFormatter(sampleReport(t, nil))
	require.NoError(t, err)

	assert.Contains(t, s, "Themes ====")
	assert.Contains(t, s, "SubThemes ====")
	lines := strings.Split(s, "\n")
	assert.Equal(t, []string{"n", "p", "r", "f1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1", "1.000", "1.000", "1.000"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"2", "0.500", "1.000", "0.667"}, strings.Fields(lines[4]))

	// Subthemes at n=1 predict only 99: precision and recall are 0 and F1 is not applicable.
	assert.Regexp(t, `(?m)^1\s+0\.000\s+0\.000\s+n\.a\.\s*$`, s)
	assert.Regexp(t, `(?m)^20\s+n\.a\.\s+0\.000\s+n\.a\.\s+99 \(100\.0%\)\s*$`, s)
	assert.Regexp(t, `(?m)^99\s+0\.000\s+n\.a\.\s+n\.a\.\s*$`, s)
	assert.Contains(t, s, "label  p")
	assert.Contains(t, s, "macro")
}

func TestTextFormatterWithoutLabels(t *testing.T) {
	r := sampleReport(t, nil)
	for i := range r.Runs {
		r.Runs[i].Labels = nil
	}
	s, err := output.TextFormatter(r)
	require.NoError(t, err)
	assert.NotContains(t, s, "confused_with")
}

func TestTextFormatterNames(t *testing.T) {
	tx, err := taxonomy.New(
		[]taxonomy.Theme{{ID: 10, Name: "Politique", Active: true}, {ID: 11, Name: "Sports", Active: true}},
		[]taxonomy.SubTheme{{ID: 20, Name: "Elections", Active: true}},
		nil,
	)
	require.NoError(t, err)
	s, err := output.TextFormatter(sampleReport(t, tx))
	require.NoError(t, err)
	assert.Contains(t, s, "name")
	assert.Contains(t, s, "Politique")
	assert.Contains(t, s, "Elections")
}

func TestConfusedWith(t *testing.T) {
	s := output.ConfusedWith([]eval.Confusion{
		{Label: 3, Count: 2, Share: 66.666},
		{Label: themeval.NoLabel, Count: 1, Share: 33.333},
	})
	assert.Equal(t, "3 (66.7%) none (33.3%)", s)
	assert.Equal(t, "", output.ConfusedWith(nil))
}

func TestJSONFormatter(t *testing.T) {
	s, err := output.JSONFormatter(sampleReport(t, nil))
	require.NoError(t, err)

	var v struct {
		RunID string `json:"run_id"`
		Runs  []struct {
			Run     string `json:"run"`
			Metrics []struct {
				N  int      `json:"n"`
				P  *float64 `json:"p"`
				F1 *float64 `json:"f1"`
			} `json:"metrics"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	assert.NotEmpty(t, v.RunID)
	require.Len(t, v.Runs, 2)
	assert.Equal(t, "sub_themes", v.Runs[1].Run)
	require.NotNil(t, v.Runs[1].Metrics[0].P)
	assert.Equal(t, 0.0, *v.Runs[1].Metrics[0].P)
	assert.Nil(t, v.Runs[1].Metrics[0].F1)
}

func TestYAMLFormatter(t *testing.T) {
	s, err := output.YAMLFormatter(sampleReport(t, nil))
	require.NoError(t, err)

	var v map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(s), &v))
	assert.Equal(t, 1, v["documents"])
	assert.Len(t, v["runs"], 2)
}

func TestCSVFormatter(t *testing.T) {
	s, err := output.CSVFormatter(sampleReport(t, nil))
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "n", "label", "name", "p", "r", "f1", "confused_with"}, records[0])
	assert.Equal(t, []string{"theme", "1", "", "", "1.000000", "1.000000", "1.000000", ""}, records[1])
	assert.Contains(t, records, []string{"sub_themes", "1", "21", "", "n.a.", "0.000000", "n.a.", "99 (100.0%)"})
}

func TestGetFormatter(t *testing.T) {
	for _, name := range []string{"text", "json", "csv", "yaml"} {
		_, err := output.GetFormatter(name)
		assert.NoError(t, err)
	}
	_, err := output.GetFormatter("html")
	assert.Error(t, err)
	assert.Equal(t, []string{"csv", "json", "text", "yaml"}, output.FormatterNames())
}

func TestTrecExport(t *testing.T) {
	preds, err := prediction.Parse([]byte(`{
		"1": {"theme": [[10, 0.9], [11, 0.1]], "sub_themes": [[20, 0.8], [99, 0.1]]},
		"2": {"theme": [[12, 0.5]]}
	}`))
	require.NoError(t, err)
	store := reference.NewStore(map[themeval.DocID]themeval.LabelSet{1: {10, 20, 21}, 2: {12}})

	var run bytes.Buffer
	require.NoError(t, output.WriteTrecRun(&run, preds, themeval.Theme, 0, "sys"))
	results, err := trecresults.ResultsFromReader(&run)
	require.NoError(t, err)
	assert.Len(t, results.Results["1"], 2)
	assert.Len(t, results.Results["2"], 1)
	assert.Equal(t, "10", results.Results["1"][0].DocId)
	assert.Equal(t, int64(1), results.Results["1"][0].Rank)
	assert.Equal(t, int64(2), results.Results["1"][1].Rank)
	assert.Equal(t, int64(1), output.TrecRun(preds, themeval.Theme, 0, "sys")[0].Rank)

	assert.Len(t, output.TrecRun(preds, themeval.SubThemes, 1, "sys"), 1)
	assert.Error(t, output.WriteTrecRun(&run, preds, themeval.Theme, 0, "my run"))

	var qrels bytes.Buffer
	require.NoError(t, output.WriteTrecQrels(&qrels, store, preds.IDs(), themeval.SubThemes))
	q, err := trecresults.QrelsFromReader(&qrels)
	require.NoError(t, err)
	assert.Len(t, q.Qrels["1"], 2)
	assert.Equal(t, int64(1), q.Qrels["1"]["21"].Score)

	err = output.WriteTrecQrels(&qrels, store, []themeval.DocID{3}, themeval.Theme)
	_, ok := err.(*reference.AlignmentError)
	assert.True(t, ok)
}
