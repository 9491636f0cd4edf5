package submission

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is one answered question. The authoritative copy lives on the
// server; the client holds a read-through cache. Immutable once created.
type Record struct {
	ID         int64
	QuestionID int64
	UserAnswer string
	Correct    bool
	CreatedAt  time.Time
}

// Local reports whether the record was judged on this client and has
// not (yet) been acknowledged by the server. Server ids are positive
// autoincrements; locally assigned ids are negative so the two can
// never collide.
func (r Record) Local() bool {
	return r.ID < 0
}

type wireRecord struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
	CreatedAt  string `json:"created_at"`
}

// Decode parses a JSON array of submission records, validating each
// entry. Malformed entries are skipped and reported, not propagated.
func Decode(data []byte) ([]Record, []error) {
	var wire []wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, []error{fmt.Errorf("submission payload is not a JSON array: %w", err)}
	}

	records := make([]Record, 0, len(wire))
	var skipped []error
	for i, w := range wire {
		r, err := fromWire(w)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("submission[%d]: %w", i, err))
			continue
		}
		records = append(records, r)
	}
	return records, skipped
}

func fromWire(w wireRecord) (Record, error) {
	if w.ID <= 0 {
		return Record{}, fmt.Errorf("missing or invalid id %d", w.ID)
	}
	if w.QuestionID <= 0 {
		return Record{}, fmt.Errorf("missing or invalid question_id %d", w.QuestionID)
	}
	createdAt, err := parseTimestamp(w.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:         w.ID,
		QuestionID: w.QuestionID,
		UserAnswer: w.UserAnswer,
		Correct:    w.IsCorrect,
		CreatedAt:  createdAt,
	}, nil
}

// parseTimestamp accepts RFC 3339 with or without an explicit offset;
// the backend emits naive UTC timestamps.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty created_at")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable created_at %q", s)
}
