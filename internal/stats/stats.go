// Package stats derives performance views from raw submission history.
// Every function is a pure fold: no I/O, no hidden counters, identical
// input always produces identical output.
package stats

import (
	"math"

	"github.com/sat-ai-platform/client/internal/domain/question"
	"github.com/sat-ai-platform/client/internal/domain/submission"
)

// Stat is the attempted/correct breakdown for one group.
// Rate is always recomputed from the counts, never patched in place.
type Stat struct {
	Attempted int
	Correct   int
	Rate      int // integer percentage, rounded half-up
}

// Overall returns the accuracy percentage across the whole history,
// 0 when the history is empty.
func Overall(history []submission.Record) int {
	correct := 0
	for _, r := range history {
		if r.Correct {
			correct++
		}
	}
	return percent(correct, len(history))
}

// ByTopic groups submissions by the topic of their referenced question.
// Submissions whose question id is not in the catalog are skipped.
func ByTopic(history []submission.Record, catalog question.Catalog) map[string]Stat {
	counts := make(map[string]Stat)
	for _, r := range history {
		q, ok := catalog[r.QuestionID]
		if !ok {
			continue
		}
		s := counts[q.Topic]
		s.Attempted++
		if r.Correct {
			s.Correct++
		}
		counts[q.Topic] = s
	}
	return finalize(counts)
}

// ByDay groups submissions by the client-local calendar date of their
// timestamp, keyed "2006-01-02".
func ByDay(history []submission.Record) map[string]Stat {
	counts := make(map[string]Stat)
	for _, r := range history {
		day := r.CreatedAt.Local().Format("2006-01-02")
		s := counts[day]
		s.Attempted++
		if r.Correct {
			s.Correct++
		}
		counts[day] = s
	}
	return finalize(counts)
}

// WrongOnly filters to incorrect submissions, preserving order.
func WrongOnly(history []submission.Record) []submission.Record {
	var wrong []submission.Record
	for _, r := range history {
		if !r.Correct {
			wrong = append(wrong, r)
		}
	}
	return wrong
}

// FilterByTopic keeps submissions whose referenced question has the
// given topic. Unresolvable question ids are dropped, as in ByTopic.
func FilterByTopic(history []submission.Record, catalog question.Catalog, topic string) []submission.Record {
	var out []submission.Record
	for _, r := range history {
		if q, ok := catalog[r.QuestionID]; ok && q.Topic == topic {
			out = append(out, r)
		}
	}
	return out
}

func finalize(counts map[string]Stat) map[string]Stat {
	for k, s := range counts {
		s.Rate = percent(s.Correct, s.Attempted)
		counts[k] = s
	}
	return counts
}

// percent rounds half-up to the nearest integer percentage, so 50.5%
// becomes 51, and returns 0 for an empty group.
func percent(correct, attempted int) int {
	if attempted == 0 {
		return 0
	}
	return int(math.Floor(100*float64(correct)/float64(attempted) + 0.5))
}
