// Package app composes the session controller, statistics, API client,
// token cache and recorder into the flows the rendering surface calls.
// It owns the client-side caches of the question catalog and the
// submission history.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sat-ai-platform/client/internal/api"
	"github.com/sat-ai-platform/client/internal/domain/question"
	"github.com/sat-ai-platform/client/internal/domain/submission"
	"github.com/sat-ai-platform/client/internal/export"
	"github.com/sat-ai-platform/client/internal/service"
	"github.com/sat-ai-platform/client/internal/session"
	"github.com/sat-ai-platform/client/internal/stats"
	"github.com/sat-ai-platform/client/internal/tokencache"
	"github.com/sat-ai-platform/client/internal/worker"
)

// Service is the slice of the API client the app depends on.
type Service interface {
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Register(ctx context.Context, email, password string) (api.AuthResult, error)
	FetchQuestions(ctx context.Context) ([]question.Question, error)
	FetchSubmissions(ctx context.Context) ([]submission.Record, error)
	SetToken(token string)
	ClearToken()
}

// Compile-time check: *api.Client satisfies Service.
var _ Service = (*api.Client)(nil)

// RefreshStatus carries the independent outcomes of the two loads that
// happen together after login. A non-nil error means that view is
// stale or empty and the surface should offer a retry.
type RefreshStatus struct {
	QuestionsErr   error
	SubmissionsErr error
}

type App struct {
	svc      Service
	tokens   *tokencache.Cache
	recorder *service.Recorder
	logger   *slog.Logger

	session   *session.Controller
	user      *api.User
	questions []question.Question
	catalog   question.Catalog
	history   []submission.Record
}

func New(svc Service, tokens *tokencache.Cache, recorder *service.Recorder, logger *slog.Logger) *App {
	return &App{
		svc:      svc,
		tokens:   tokens,
		recorder: recorder,
		logger:   logger,
		session:  session.New(),
	}
}

// Resume installs a previously cached token, if any. The caller should
// Refresh afterwards; a stale token will surface as an unauthorized
// refresh, not an error here.
func (a *App) Resume() (bool, error) {
	token, err := a.tokens.Load()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	a.svc.SetToken(token)
	return true, nil
}

// SignIn logs in, falling back to registration when the service
// rejects the credentials (first run of a fresh account). On success
// the token is installed and cached; on failure no partial credential
// is kept anywhere.
func (a *App) SignIn(ctx context.Context, email, password string) error {
	res, err := a.svc.Login(ctx, email, password)
	if err != nil {
		var statusErr *api.StatusError
		if !errors.Is(err, api.ErrUnauthorized) && !errors.As(err, &statusErr) {
			return err // transport failure: registering would not help
		}
		a.logger.Info("login rejected, trying registration", "email", email)
		res, err = a.svc.Register(ctx, email, password)
		if err != nil {
			a.svc.ClearToken()
			return err
		}
	}

	a.svc.SetToken(res.Token)
	a.user = res.User
	if err := a.tokens.Save(res.Token); err != nil {
		// Session still works, it just won't survive a restart.
		a.logger.Warn("failed to cache token", "error", err)
	}
	return nil
}

// SignOut clears the credential and resets all client state.
func (a *App) SignOut() {
	a.svc.ClearToken()
	if err := a.tokens.Clear(); err != nil {
		a.logger.Warn("failed to clear cached token", "error", err)
	}
	a.user = nil
	a.questions = nil
	a.catalog = nil
	a.history = nil
	a.session.Load(nil)
}

// refreshResult is one of the two loads performed by Refresh.
type refreshResult struct {
	questions   []question.Question
	submissions []submission.Record
	err         error
}

// Refresh loads the question list and the submission history. The two
// requests are independent and run concurrently; either may fail
// without affecting the other. A successful question load starts a
// fresh practice session over the new sequence.
func (a *App) Refresh(ctx context.Context) RefreshStatus {
	pool := worker.NewPool[refreshResult](2, 2)
	pool.Submit("questions", func() refreshResult {
		qs, err := a.svc.FetchQuestions(ctx)
		return refreshResult{questions: qs, err: err}
	})
	pool.Submit("submissions", func() refreshResult {
		subs, err := a.svc.FetchSubmissions(ctx)
		return refreshResult{submissions: subs, err: err}
	})
	pool.Close()

	var status RefreshStatus
	for res := range pool.Results() {
		switch res.JobID {
		case "questions":
			if res.Output.err != nil {
				status.QuestionsErr = res.Output.err
				a.logger.Error("failed to load questions", "error", res.Output.err)
				continue
			}
			a.questions = res.Output.questions
			a.catalog = question.NewCatalog(a.questions)
			a.session.Load(a.questions)
			a.logger.Info("questions loaded", "count", len(a.questions), "session_id", a.session.ID())
		case "submissions":
			if res.Output.err != nil {
				status.SubmissionsErr = res.Output.err
				a.logger.Error("failed to load submissions", "error", res.Output.err)
				continue
			}
			a.history = res.Output.submissions
			a.logger.Info("submissions loaded", "count", len(a.history))
		}
	}
	return status
}

// SubmitAnswer judges the current draft. When the judgment happens the
// record is appended to the local history and handed to the recorder
// for best-effort persistence; the session state never waits on the
// network.
func (a *App) SubmitAnswer() (submission.Record, bool) {
	rec, ok := a.session.Submit()
	if !ok {
		return submission.Record{}, false
	}
	a.history = append(a.history, rec)
	a.recorder.Record(rec)
	return rec, true
}

// JumpTo moves the practice view to the given question, e.g. from the
// wrong-answer review.
func (a *App) JumpTo(questionID int64) bool {
	return a.session.JumpTo(questionID)
}

func (a *App) Session() *session.Controller { return a.session }
func (a *App) User() *api.User              { return a.user }
func (a *App) History() []submission.Record { return a.history }
func (a *App) Catalog() question.Catalog    { return a.catalog }

func (a *App) Question(id int64) (question.Question, bool) {
	q, ok := a.catalog[id]
	return q, ok
}

// ── Derived views ───────────────────────────────────────────────────

func (a *App) Overall() int { return stats.Overall(a.history) }

func (a *App) TopicStats() map[string]stats.Stat { return stats.ByTopic(a.history, a.catalog) }

func (a *App) DailyStats() map[string]stats.Stat { return stats.ByDay(a.history) }

func (a *App) WrongOnly() []submission.Record { return stats.WrongOnly(a.history) }

// FilteredHistory applies the reporting view's filters: wrong-only
// and/or a single topic. An empty topic means all topics.
func (a *App) FilteredHistory(topic string, wrongOnly bool) []submission.Record {
	filtered := a.history
	if wrongOnly {
		filtered = stats.WrongOnly(filtered)
	}
	if topic != "" {
		filtered = stats.FilterByTopic(filtered, a.catalog, topic)
	}
	return filtered
}

// ── Exports ─────────────────────────────────────────────────────────

// ExportCSV serializes the filtered history and returns the bytes plus
// the conventional filename.
func (a *App) ExportCSV(topic string, wrongOnly bool) ([]byte, string, error) {
	data, err := export.CSV(a.FilteredHistory(topic, wrongOnly), a.catalog)
	if err != nil {
		return nil, "", err
	}
	return data, export.Filename(time.Now()), nil
}

// ExportSnapshot renders the print-formatted report of the current
// reporting view.
func (a *App) ExportSnapshot() string {
	return export.Snapshot(a.history, a.catalog, time.Now())
}
