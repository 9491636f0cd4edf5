package question

import (
	"encoding/json"
	"fmt"
)

type Kind string

const (
	KindMultipleChoice Kind = "mcq"
	KindShortAnswer    Kind = "short_answer"
)

// Question is one practice question as served by the API.
// Immutable once loaded.
type Question struct {
	ID      int64
	Kind    Kind
	Topic   string
	Stem    string
	Options []string // present iff Kind is mcq, in display order
	Answer  string   // canonical answer
}

// wireQuestion mirrors the loose JSON the API sends.
type wireQuestion struct {
	ID      int64    `json:"id"`
	Type    string   `json:"type"`
	Topic   string   `json:"topic"`
	Stem    string   `json:"stem"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Decode parses a JSON array of questions, validating each entry into
// the strict Question shape. Malformed entries are skipped and reported
// back to the caller; they never propagate inward.
func Decode(data []byte) ([]Question, []error) {
	var wire []wireQuestion
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, []error{fmt.Errorf("question payload is not a JSON array: %w", err)}
	}

	questions := make([]Question, 0, len(wire))
	var skipped []error
	for i, w := range wire {
		q, err := fromWire(w)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("question[%d]: %w", i, err))
			continue
		}
		questions = append(questions, q)
	}
	return questions, skipped
}

func fromWire(w wireQuestion) (Question, error) {
	if w.ID <= 0 {
		return Question{}, fmt.Errorf("missing or invalid id %d", w.ID)
	}
	kind := Kind(w.Type)
	if kind != KindMultipleChoice && kind != KindShortAnswer {
		return Question{}, fmt.Errorf("unknown kind %q", w.Type)
	}
	if w.Stem == "" {
		return Question{}, fmt.Errorf("empty stem")
	}
	if w.Answer == "" {
		return Question{}, fmt.Errorf("empty canonical answer")
	}
	if kind == KindMultipleChoice && len(w.Options) == 0 {
		return Question{}, fmt.Errorf("multiple-choice question without options")
	}

	q := Question{
		ID:     w.ID,
		Kind:   kind,
		Topic:  w.Topic,
		Stem:   w.Stem,
		Answer: w.Answer,
	}
	if kind == KindMultipleChoice {
		q.Options = append([]string(nil), w.Options...)
	}
	return q, nil
}

// Catalog indexes questions by id for stats lookups and exports.
type Catalog map[int64]Question

// NewCatalog builds a Catalog from a question list. Later duplicates
// of the same id win, matching the API's own ordering.
func NewCatalog(questions []Question) Catalog {
	c := make(Catalog, len(questions))
	for _, q := range questions {
		c[q.ID] = q
	}
	return c
}
