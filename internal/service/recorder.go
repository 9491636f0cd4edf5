// internal/service/recorder.go
package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/sat-ai-platform/client/internal/domain/submission"
	"github.com/sat-ai-platform/client/internal/worker"
)

// Persister is the slice of the API client the recorder needs.
type Persister interface {
	CreateSubmission(ctx context.Context, questionID int64, userAnswer string) (submission.Record, error)
}

// Recorder ships locally judged submissions to the backend, best
// effort: no retry, no result bound back into session state. The
// judged/revealed state shown to the user is authoritative regardless
// of whether a record ever reaches the server; a failed persist is
// logged and swallowed.
type Recorder struct {
	persister Persister
	logger    *slog.Logger

	pool    *worker.Pool[error]
	pending sync.WaitGroup
	drained chan struct{}
}

// NewRecorder starts the persistence workers and the goroutine that
// drains their outcomes into the log.
func NewRecorder(p Persister, logger *slog.Logger) *Recorder {
	r := &Recorder{
		persister: p,
		logger:    logger,
		pool:      worker.NewPool[error](3, 16),
		drained:   make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record enqueues one judged submission for persistence and returns
// immediately. Subsequent navigation never cancels the request.
func (r *Recorder) Record(rec submission.Record) {
	r.pending.Add(1)
	qid := rec.QuestionID
	answer := rec.UserAnswer

	r.pool.Submit(strconv.FormatInt(qid, 10), func() error {
		defer r.pending.Done()
		// context.Background: the request must outlive the UI event
		// that triggered it.
		_, err := r.persister.CreateSubmission(context.Background(), qid, answer)
		return err
	})
}

func (r *Recorder) drain() {
	defer close(r.drained)
	for res := range r.pool.Results() {
		if res.Output != nil {
			r.logger.Error("submission not persisted",
				"question_id", res.JobID,
				"error", res.Output,
			)
		}
	}
}

// Wait blocks until every enqueued persist has completed.
func (r *Recorder) Wait() {
	r.pending.Wait()
}

// Shutdown waits for in-flight persists, then stops the workers.
func (r *Recorder) Shutdown() {
	r.pending.Wait()
	r.pool.Close()
	<-r.drained
}
