// Package export turns submission history into the shapes the
// reporting surface hands to the user: a CSV table and a printable
// text snapshot. Pure transforms, no I/O.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sat-ai-platform/client/internal/domain/question"
	"github.com/sat-ai-platform/client/internal/domain/submission"
	"github.com/sat-ai-platform/client/internal/stats"
)

var csvHeader = []string{"Question ID", "Topic", "Question", "Your Answer", "Correct Answer", "Status", "Date"}

// CSV serializes the given submissions, one row per record in input
// order. Records whose question is missing from the catalog still get
// a row, with "Unknown" placeholders.
func CSV(history []submission.Record, catalog question.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range history {
		topic, stem, answer := "Unknown", "Unknown", "Unknown"
		if q, ok := catalog[r.QuestionID]; ok {
			topic, stem, answer = q.Topic, q.Stem, q.Answer
		}
		row := []string{
			strconv.FormatInt(r.QuestionID, 10),
			topic,
			stem,
			r.UserAnswer,
			answer,
			status(r.Correct),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename is the conventional name for a CSV export taken at t.
func Filename(t time.Time) string {
	return "sat-practice-" + t.Local().Format("2006-01-02") + ".csv"
}

// Snapshot renders a print-formatted report of the current statistics:
// overall accuracy, per-topic and per-day breakdowns, and the wrong
// answers with their corrections.
func Snapshot(history []submission.Record, catalog question.Catalog, now time.Time) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Performance Report, %s\n", now.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&buf, "================================================\n\n")

	wrong := stats.WrongOnly(history)
	fmt.Fprintf(&buf, "Total answered: %d\n", len(history))
	fmt.Fprintf(&buf, "Correct:        %d\n", len(history)-len(wrong))
	fmt.Fprintf(&buf, "Accuracy:       %d%%\n\n", stats.Overall(history))

	fmt.Fprintf(&buf, "By topic\n--------\n")
	byTopic := stats.ByTopic(history, catalog)
	for _, topic := range sortedKeys(byTopic) {
		s := byTopic[topic]
		fmt.Fprintf(&buf, "%-20s %3d%%  (%d/%d)\n", topic, s.Rate, s.Correct, s.Attempted)
	}

	fmt.Fprintf(&buf, "\nBy day\n------\n")
	byDay := stats.ByDay(history)
	for _, day := range sortedKeys(byDay) {
		s := byDay[day]
		fmt.Fprintf(&buf, "%s  %3d%%  (%d/%d)\n", day, s.Rate, s.Correct, s.Attempted)
	}

	if len(wrong) > 0 {
		fmt.Fprintf(&buf, "\nWrong answers\n-------------\n")
		for _, r := range wrong {
			stem, answer := "Unknown", "Unknown"
			if q, ok := catalog[r.QuestionID]; ok {
				stem, answer = q.Stem, q.Answer
			}
			fmt.Fprintf(&buf, "Q%d: %s\n  your answer: %s\n  correct:     %s\n", r.QuestionID, stem, r.UserAnswer, answer)
		}
	}

	return buf.String()
}

func status(correct bool) string {
	if correct {
		return "Correct"
	}
	return "Incorrect"
}

func sortedKeys(m map[string]stats.Stat) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
