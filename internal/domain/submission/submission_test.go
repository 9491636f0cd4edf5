package submission_test

import (
	"testing"
	"time"

	"github.com/sat-ai-platform/client/internal/domain/submission"
)

func TestDecode(t *testing.T) {
	payload := `[
		{"id": 1, "question_id": 7, "user_answer": "42", "is_correct": true, "created_at": "2025-09-08T18:30:00Z"},
		{"id": 2, "question_id": 8, "user_answer": "x", "is_correct": false, "created_at": "2025-09-08T18:31:05.123456"},
		{"id": 3, "question_id": 0, "user_answer": "bad", "is_correct": false, "created_at": "2025-09-08T18:32:00Z"},
		{"id": 4, "question_id": 9, "user_answer": "bad", "is_correct": false, "created_at": "not a time"}
	]`

	records, skipped := submission.Decode([]byte(payload))
	if len(records) != 2 {
		t.Fatalf("expected 2 valid records, got %d (skipped: %v)", len(records), skipped)
	}
	if len(skipped) != 2 {
		t.Errorf("expected 2 skipped entries, got %d", len(skipped))
	}

	if records[0].QuestionID != 7 || !records[0].Correct {
		t.Errorf("first record decoded wrong: %#v", records[0])
	}
	want := time.Date(2025, 9, 8, 18, 30, 0, 0, time.UTC)
	if !records[0].CreatedAt.Equal(want) {
		t.Errorf("created_at = %v, want %v", records[0].CreatedAt, want)
	}

	// Naive backend timestamps must also parse.
	if records[1].CreatedAt.Minute() != 31 {
		t.Errorf("naive created_at not parsed: %v", records[1].CreatedAt)
	}
}

func TestLocal(t *testing.T) {
	if (submission.Record{ID: 5}).Local() {
		t.Error("server record reported as local")
	}
	if !(submission.Record{ID: -1}).Local() {
		t.Error("negative id record not reported as local")
	}
}
