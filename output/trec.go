package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/prediction"
	"github.com/hscells/themeval/reference"
	"github.com/hscells/trecresults"
	"github.com/pkg/errors"
)

// TrecRun converts the predictions of a run into a TREC result list: each document is a topic and each predicted
// label a retrieved "document". Rankings are truncated to depth; depth <= 0 keeps them whole.
func TrecRun(preds *prediction.Set, run themeval.Run, depth int, runName string) trecresults.ResultList {
	var results trecresults.ResultList
	for _, id := range preds.IDs() {
		p, _ := preds.Get(id)
		ranking := p.Ranking(run)
		if depth > 0 && len(ranking) > depth {
			ranking = ranking[:depth]
		}
		for i, l := range ranking {
			results = append(results, &trecresults.Result{
				Topic:     id.String(),
				Iteration: "Q0",
				DocId:     l.Label.String(),
				Rank:      int64(i + 1),
				Score:     l.Score,
				RunName:   runName,
			})
		}
	}
	return results
}

// WriteTrecRun writes the predictions of a run in TREC run format.
func WriteTrecRun(w io.Writer, preds *prediction.Set, run themeval.Run, depth int, runName string) error {
	if strings.ContainsAny(runName, " \t\n") || runName == "" {
		return errors.Errorf("invalid run name %q", runName)
	}
	l := TrecRun(preds, run, depth, runName)
	lines := make([]string, len(l))
	for i, r := range l {
		lines[i] = r.String()
	}
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteTrecQrels writes the reference labels of the given documents as TREC relevance judgements.
func WriteTrecQrels(w io.Writer, store *reference.Store, ids []themeval.DocID, run themeval.Run) error {
	for _, id := range ids {
		labels, ok := store.Get(id)
		if !ok {
			return &reference.AlignmentError{Key: id.String()}
		}
		for _, l := range labels.For(run) {
			if _, err := fmt.Fprintf(w, "%s 0 %s 1\n", id, l); err != nil {
				return err
			}
		}
	}
	return nil
}
