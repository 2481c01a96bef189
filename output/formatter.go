package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hscells/themeval/eval"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Formatter renders a report.
type Formatter func(r Report) (string, error)

// Formatters are the available report formats, by name.
var Formatters = map[string]Formatter{
	"text": TextFormatter,
	"json": JSONFormatter,
	"csv":  CSVFormatter,
	"yaml": YAMLFormatter,
}

// FormatterNames lists the available formats in alphabetical order.
func FormatterNames() []string {
	names := make([]string, 0, len(Formatters))
	for name := range Formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetFormatter looks a formatter up by name.
func GetFormatter(name string) (Formatter, error) {
	f, ok := Formatters[name]
	if !ok {
		return nil, errors.Errorf("unknown output format %q, expected one of %s", name, strings.Join(FormatterNames(), ", "))
	}
	return f, nil
}

// ConfusedWith renders a confusion list as space separated "label (pct%)" entries.
func ConfusedWith(confusions []eval.Confusion) string {
	parts := make([]string, len(confusions))
	for i, c := range confusions {
		parts[i] = fmt.Sprintf("%s (%.1f%%)", c.Label, c.Share)
	}
	return strings.Join(parts, " ")
}

func separator(n int) string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return strings.Join(sep, "\t")
}

// TextFormatter renders plain-text tables: the aggregate table of every run and, when present, its per-label
// table.
func TextFormatter(r Report) (string, error) {
	b := bytes.NewBufferString("")
	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	for i, run := range r.Runs {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s %s\n", run.Run.Title(), strings.Repeat("=", 20))
		writeAggregateTable(tw, run)
		if len(run.Labels) > 0 {
			fmt.Fprintln(tw)
			writeLabelTable(tw, run)
		}
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeAggregateTable(tw *tabwriter.Writer, run RunReport) {
	fmt.Fprintln(tw, "n\tp\tr\tf1")
	fmt.Fprintln(tw, separator(4))
	for _, m := range run.Metrics {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.Depth, m.Precision, m.Recall, m.F1)
	}
}

func writeLabelTable(tw *tabwriter.Writer, run RunReport) {
	named := false
	for _, l := range run.Labels {
		if l.Name != "" {
			named = true
			break
		}
	}
	header := []string{"label"}
	if named {
		header = append(header, "name")
	}
	header = append(header, "p", "r", "f1", "confused_with")
	fmt.Fprintf(tw, "per label at n=%d\n", run.ConfusionDepth)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))
	for _, l := range run.Labels {
		row := []string{l.Label.String()}
		if named {
			row = append(row, l.Name)
		}
		row = append(row, l.Precision.String(), l.Recall.String(), l.F1.String(), ConfusedWith(l.Confusions))
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if run.Macro != nil {
		row := []string{"macro"}
		if named {
			row = append(row, "")
		}
		row = append(row, run.Macro.Precision.String(), run.Macro.Recall.String(), run.Macro.F1.String(), "")
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
}

// JSONFormatter outputs the report in a JSON format.
func JSONFormatter(r Report) (string, error) {
	v, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// YAMLFormatter outputs the report in a YAML format.
func YAMLFormatter(r Report) (string, error) {
	v, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// CSVFormatter outputs one row per aggregate metric followed by one row per label. Aggregate rows leave the
// label empty; label rows carry the depth they were tracked at.
func CSVFormatter(r Report) (string, error) {
	b := bytes.NewBufferString("")
	w := csv.NewWriter(b)
	records := [][]string{{"run", "n", "label", "name", "p", "r", "f1", "confused_with"}}
	for _, run := range r.Runs {
		for _, m := range run.Metrics {
			records = append(records, []string{
				string(run.Run), strconv.Itoa(m.Depth), "", "",
				m.Precision.Format(6), m.Recall.Format(6), m.F1.Format(6), "",
			})
		}
		for _, l := range run.Labels {
			records = append(records, []string{
				string(run.Run), strconv.Itoa(run.ConfusionDepth), l.Label.String(), l.Name,
				l.Precision.Format(6), l.Recall.Format(6), l.F1.Format(6), ConfusedWith(l.Confusions),
			})
		}
	}
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return b.String(), nil
}
