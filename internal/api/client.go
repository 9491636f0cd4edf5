// Package api is the HTTP collaborator for the remote practice-question
// service. It owns the wire contract and boundary validation; nothing
// above this package sees raw JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sat-ai-platform/client/internal/domain/question"
	"github.com/sat-ai-platform/client/internal/domain/submission"
)

// ErrUnauthorized is returned when the service rejects the credential.
var ErrUnauthorized = errors.New("api: unauthorized")

// StatusError is returned for any other non-success response so the
// caller can distinguish "service said no" from "service unreachable."
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, e.Body)
}

// User is the authenticated account as reported by the service.
type User struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Active bool   `json:"is_active"`
}

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Token string
	User  *User
}

// Client talks to the practice-question API. The bearer token is held
// here, not in a package-level variable; construct one Client per
// authenticated context.
type Client struct {
	baseURL   string
	pageLimit int
	token     string
	client    *http.Client // reused across calls
	logger    *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, pageLimit int, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		pageLimit: pageLimit,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// SetToken installs the bearer credential presented on authenticated
// requests.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken drops the bearer credential (logout).
func (c *Client) ClearToken() { c.token = "" }

// Login exchanges credentials for a bearer token. The token endpoint
// speaks form encoding, not JSON.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return AuthResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.doAuth(req)
}

// Register creates an account and returns a bearer token for it.
func (c *Client) Register(ctx context.Context, email, password string) (AuthResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return AuthResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register", bytes.NewReader(body))
	if err != nil {
		return AuthResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doAuth(req)
}

func (c *Client) doAuth(req *http.Request) (AuthResult, error) {
	body, err := c.do(req, false)
	if err != nil {
		return AuthResult{}, err
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        *User  `json:"user"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return AuthResult{}, fmt.Errorf("api: invalid auth response: %w", err)
	}
	if payload.AccessToken == "" {
		return AuthResult{}, fmt.Errorf("api: auth response without access_token")
	}
	return AuthResult{Token: payload.AccessToken, User: payload.User}, nil
}

// FetchQuestions pages through the full question list. Malformed
// entries are logged and skipped at the boundary.
func (c *Client) FetchQuestions(ctx context.Context) ([]question.Question, error) {
	var all []question.Question
	for skip := 0; ; skip += c.pageLimit {
		body, err := c.get(ctx, "/questions/", skip, false)
		if err != nil {
			return nil, err
		}

		page, skipped := question.Decode(body)
		for _, serr := range skipped {
			c.logger.Warn("skipping malformed question", "error", serr)
		}
		all = append(all, page...)

		if pageDone(body, c.pageLimit) {
			return all, nil
		}
	}
}

// FetchSubmissions pages through the caller's submission history.
// Requires a bearer token.
func (c *Client) FetchSubmissions(ctx context.Context) ([]submission.Record, error) {
	var all []submission.Record
	for skip := 0; ; skip += c.pageLimit {
		body, err := c.get(ctx, "/submissions/", skip, true)
		if err != nil {
			return nil, err
		}

		page, skipped := submission.Decode(body)
		for _, serr := range skipped {
			c.logger.Warn("skipping malformed submission", "error", serr)
		}
		all = append(all, page...)

		if pageDone(body, c.pageLimit) {
			return all, nil
		}
	}
}

// CreateSubmission persists one answered question. Requires a bearer
// token. The server judges independently and returns the stored record.
func (c *Client) CreateSubmission(ctx context.Context, questionID int64, userAnswer string) (submission.Record, error) {
	payload, err := json.Marshal(map[string]any{
		"question_id": questionID,
		"user_answer": userAnswer,
	})
	if err != nil {
		return submission.Record{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions/", bytes.NewReader(payload))
	if err != nil {
		return submission.Record{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, true)
	if err != nil {
		return submission.Record{}, err
	}

	// The create endpoint returns a single record; reuse the array
	// decoder by wrapping it.
	records, skipped := submission.Decode(append(append([]byte("["), body...), ']'))
	if len(records) != 1 {
		return submission.Record{}, fmt.Errorf("api: invalid create response: %v", errors.Join(skipped...))
	}
	return records[0], nil
}

func (c *Client) get(ctx context.Context, path string, skip int, authed bool) ([]byte, error) {
	u := c.baseURL + path + "?skip=" + strconv.Itoa(skip) + "&limit=" + strconv.Itoa(c.pageLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, authed)
}

// do sends the request with a correlation id, attaching the bearer
// token when the endpoint requires one, and maps non-2xx statuses to
// typed errors.
func (c *Client) do(req *http.Request, authed bool) ([]byte, error) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		if c.token == "" {
			return nil, ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: reading response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
}

// pageDone reports whether a page's raw JSON array held fewer entries
// than the page limit, i.e. it was the last page.
func pageDone(body []byte, limit int) bool {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return true
	}
	return len(raw) < limit
}
