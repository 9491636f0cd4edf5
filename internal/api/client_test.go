package api_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sat-ai-platform/client/internal/api"
)

func newClient(t *testing.T, handler http.Handler, pageLimit int) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewClient(srv.URL, 5*time.Second, pageLimit, logger)
}

func TestLogin_SendsFormAndParsesToken(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %s", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		r.ParseForm()
		if r.PostForm.Get("username") != "kid@example.com" {
			t.Errorf("username = %q", r.PostForm.Get("username"))
		}
		fmt.Fprint(w, `{"access_token": "tok-123", "token_type": "bearer", "user": {"id": 1, "email": "kid@example.com", "is_active": true}}`)
	}), 100)

	res, err := c.Login(context.Background(), "kid@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "tok-123" {
		t.Errorf("token = %q", res.Token)
	}
	if res.User == nil || res.User.Email != "kid@example.com" {
		t.Errorf("user = %#v", res.User)
	}
}

func TestLogin_UnauthorizedIsTyped(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), 100)

	_, err := c.Login(context.Background(), "a@b.c", "nope")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestFetchQuestions_PagesAndSkipsMalformed(t *testing.T) {
	pages := []string{
		// full page of 2: client must request the next one
		`[{"id": 1, "type": "short_answer", "topic": "algebra", "stem": "q1", "answer": "a"},
		  {"id": 0, "type": "short_answer", "stem": "malformed", "answer": "a"}]`,
		// short page: done
		`[{"id": 3, "type": "mcq", "topic": "geometry", "stem": "q3", "options": ["a", "b"], "answer": "b"}]`,
	}
	var calls int
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		wantSkip := fmt.Sprintf("%d", calls*2)
		if got := r.URL.Query().Get("skip"); got != wantSkip {
			t.Errorf("skip = %q, want %q", got, wantSkip)
		}
		fmt.Fprint(w, pages[calls])
		calls++
	}), 2)

	qs, err := c.FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("FetchQuestions: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 page fetches, got %d", calls)
	}
	// Malformed entry is dropped at the boundary, not surfaced.
	if len(qs) != 2 || qs[0].ID != 1 || qs[1].ID != 3 {
		t.Errorf("questions = %#v", qs)
	}
}

func TestFetchSubmissions_RequiresToken(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server without a token")
	}), 100)

	if _, err := c.FetchSubmissions(context.Background()); !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateSubmission_SendsBearerAndDecodes(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/submissions/" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
			t.Errorf("authorization = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"question_id":7,"user_answer":"42"}` {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 55, "question_id": 7, "user_answer": "42", "is_correct": true, "created_at": "2025-09-08T18:30:00Z"}`)
	}), 100)
	c.SetToken("tok-123")

	rec, err := c.CreateSubmission(context.Background(), 7, "42")
	if err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if rec.ID != 55 || !rec.Correct {
		t.Errorf("record = %#v", rec)
	}
}

func TestServerErrorIsStatusError(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}), 100)
	c.SetToken("tok")

	_, err := c.FetchSubmissions(context.Background())
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Errorf("expected *StatusError with 500, got %v", err)
	}
}
