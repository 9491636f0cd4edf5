package export_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/sat-ai-platform/client/internal/domain/question"
	"github.com/sat-ai-platform/client/internal/domain/submission"
	"github.com/sat-ai-platform/client/internal/export"
)

var catalog = question.NewCatalog([]question.Question{
	{ID: 1, Kind: question.KindShortAnswer, Topic: "algebra", Stem: "If x+1=3, what is x?", Answer: "2"},
	{ID: 2, Kind: question.KindShortAnswer, Topic: "geometry", Stem: "Area of a 2,3 rectangle?", Answer: "6"},
})

var when = time.Date(2025, 9, 8, 18, 30, 0, 0, time.Local)

func TestCSV(t *testing.T) {
	history := []submission.Record{
		{ID: 1, QuestionID: 1, UserAnswer: "2", Correct: true, CreatedAt: when},
		{ID: 2, QuestionID: 2, UserAnswer: "5", Correct: false, CreatedAt: when},
		{ID: 3, QuestionID: 404, UserAnswer: "?", Correct: false, CreatedAt: when},
	}

	data, err := export.CSV(history, catalog)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}

	header := strings.Join(rows[0], "|")
	if header != "Question ID|Topic|Question|Your Answer|Correct Answer|Status|Date" {
		t.Errorf("header = %s", header)
	}

	// A stem containing a comma must survive the round trip intact.
	if rows[2][2] != "Area of a 2,3 rectangle?" {
		t.Errorf("quoted stem mangled: %q", rows[2][2])
	}
	if rows[1][5] != "Correct" || rows[2][5] != "Incorrect" {
		t.Errorf("status column wrong: %q, %q", rows[1][5], rows[2][5])
	}

	// Unresolvable question still gets a row, with placeholders.
	if rows[3][1] != "Unknown" || rows[3][4] != "Unknown" {
		t.Errorf("missing-question placeholders wrong: %v", rows[3])
	}
}

func TestFilename(t *testing.T) {
	if got := export.Filename(when); got != "sat-practice-2025-09-08.csv" {
		t.Errorf("Filename = %q", got)
	}
}

func TestSnapshot(t *testing.T) {
	history := []submission.Record{
		{ID: 1, QuestionID: 1, UserAnswer: "2", Correct: true, CreatedAt: when},
		{ID: 2, QuestionID: 2, UserAnswer: "5", Correct: false, CreatedAt: when},
	}

	out := export.Snapshot(history, catalog, when)

	for _, want := range []string{
		"Accuracy:       50%",
		"algebra",
		"geometry",
		"2025-09-08",
		"your answer: 5",
		"correct:     6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot missing %q:\n%s", want, out)
		}
	}
}
