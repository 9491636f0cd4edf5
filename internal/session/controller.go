// Package session drives an ordered, non-repeating traversal of a
// fixed question set. It owns the current position, the draft answer,
// and the judged/revealed state of every slot; it never touches the
// network.
package session

import (
	"strings"
	"time"

	"github.com/sat-ai-platform/client/internal/domain/question"
	"github.com/sat-ai-platform/client/internal/domain/submission"
	"github.com/sat-ai-platform/client/internal/id"
)

// slot holds the mutable per-question state for one position.
// A slot transitions unanswered → judged exactly once per Load.
type slot struct {
	draft    string
	judged   bool
	revealed bool
	answer   string // the answer as it was judged
	correct  bool
}

// Controller is the practice-session state machine.
type Controller struct {
	id        string
	questions []question.Question
	slots     []slot
	pos       int

	nextLocalID int64
}

func New() *Controller {
	return &Controller{id: id.GenerateID(), nextLocalID: -1}
}

// ID is the client-generated session id, used for log correlation only.
func (c *Controller) ID() string { return c.id }

// Load replaces the question sequence, resets the position to 0 and
// clears all per-question state. An empty sequence is a valid terminal
// display state, not an error.
func (c *Controller) Load(questions []question.Question) {
	c.questions = append([]question.Question(nil), questions...)
	c.slots = make([]slot, len(questions))
	c.pos = 0
}

func (c *Controller) Len() int { return len(c.questions) }

func (c *Controller) Empty() bool { return len(c.questions) == 0 }

func (c *Controller) Position() int { return c.pos }

// Current returns the question at the current position.
// ok is false for an empty session.
func (c *Controller) Current() (question.Question, bool) {
	if c.Empty() {
		return question.Question{}, false
	}
	return c.questions[c.pos], true
}

// Draft returns the draft answer for the current slot.
func (c *Controller) Draft() string {
	if c.Empty() {
		return ""
	}
	return c.slots[c.pos].draft
}

// SetDraft updates the draft answer for the current slot. It is a
// no-op once the slot has been judged: a revealed answer must not be
// overwritten.
func (c *Controller) SetDraft(text string) {
	if c.Empty() || c.slots[c.pos].judged {
		return
	}
	c.slots[c.pos].draft = text
}

// Judged reports whether the current slot has been judged.
func (c *Controller) Judged() bool {
	return !c.Empty() && c.slots[c.pos].judged
}

// Revealed reports whether the correct answer is visible for the
// current slot.
func (c *Controller) Revealed() bool {
	return !c.Empty() && c.slots[c.pos].revealed
}

// Result returns the judged answer and its correctness for the current
// slot; ok is false while the slot is unanswered.
func (c *Controller) Result() (answer string, correct bool, ok bool) {
	if !c.Judged() {
		return "", false, false
	}
	s := c.slots[c.pos]
	return s.answer, s.correct, true
}

// Submit judges the current draft against the canonical answer and
// transitions the slot to judged. It is a no-op (ok=false) when the
// session is empty, the slot is already judged, or the trimmed draft
// is empty.
//
// The returned record is the locally judged submission; persisting it
// is the caller's concern and is best-effort. The judged and revealed
// state here is authoritative for this session regardless of whether
// the backend ever acknowledges the record.
func (c *Controller) Submit() (submission.Record, bool) {
	if c.Empty() {
		return submission.Record{}, false
	}
	s := &c.slots[c.pos]
	if s.judged || strings.TrimSpace(s.draft) == "" {
		return submission.Record{}, false
	}

	q := c.questions[c.pos]
	s.judged = true
	s.revealed = true
	s.answer = s.draft
	s.correct = Judge(s.draft, q.Answer)

	rec := submission.Record{
		ID:         c.nextLocalID,
		QuestionID: q.ID,
		UserAnswer: s.draft,
		Correct:    s.correct,
		CreatedAt:  time.Now(),
	}
	c.nextLocalID--
	return rec, true
}

// Judge compares a user answer to the canonical answer: whitespace is
// trimmed on both sides and the comparison is case-insensitive. There
// is no numeric normalization ("4.0" does not match "4").
func Judge(userAnswer, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(canonical))
}

// Advance moves to the next question, clamped to the last slot.
func (c *Controller) Advance() { c.moveTo(c.pos + 1) }

// Retreat moves to the previous question, clamped to the first slot.
func (c *Controller) Retreat() { c.moveTo(c.pos - 1) }

// JumpTo sets the position to the slot holding the given question id.
// No-op if the id is not part of this session.
func (c *Controller) JumpTo(questionID int64) bool {
	for i, q := range c.questions {
		if q.ID == questionID {
			c.moveTo(i)
			return true
		}
	}
	return false
}

// moveTo clamps the destination into range and clears the draft and
// reveal of the destination slot unless it was already judged: a
// judged slot keeps showing its recorded answer when revisited.
func (c *Controller) moveTo(dest int) {
	if c.Empty() {
		return
	}
	if dest < 0 {
		dest = 0
	}
	if dest > len(c.questions)-1 {
		dest = len(c.questions) - 1
	}
	c.pos = dest
	if s := &c.slots[dest]; !s.judged {
		s.draft = ""
		s.revealed = false
	}
}
