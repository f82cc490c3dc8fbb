// Package runner implements the timed sequential questionnaire session: it
// walks a candidate through a fiche one question at a time, counts down
// per-question time limits, persists every answer to the backend and submits
// the session exactly once.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/recrutech/recrutech-screening/internal/fiche"
)

type State string

const (
	StateLoading   State = "loading"
	StateBlocked   State = "blocked" // submission already SUBMITTED at load
	StateErrored   State = "error"   // session or fiche could not be loaded
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// ErrIncomplete is returned by a manual Advance when the current required
// question has no complete answer. Nothing is persisted and the index does
// not move.
var ErrIncomplete = errors.New("answer required")

// The four backend collaborators. fiche.Store satisfies all of them; the
// HTTP Client in this package does too.
type (
	SessionService interface {
		GetSubmission(ctx context.Context, id string) (fiche.Submission, error)
	}
	DefinitionService interface {
		GetFiche(ctx context.Context, id string) (fiche.Fiche, error)
	}
	AnswerService interface {
		SaveAnswer(ctx context.Context, submissionID string, rec fiche.AnswerRecord) error
	}
	SubmitService interface {
		Submit(ctx context.Context, submissionID string) error
	}
)

type Services struct {
	Sessions    SessionService
	Definitions DefinitionService
	Answers     AnswerService
	Submitter   SubmitService
}

// FromStore wires all four services to one backend store.
func FromStore(s fiche.Store) Services {
	return Services{Sessions: s, Definitions: s, Answers: s, Submitter: s}
}

// Snapshot is the read-only view the UI renders from.
type Snapshot struct {
	State        State
	Index        int
	Total        int
	Question     fiche.Question // zero value unless State is active
	Value        fiche.Answer
	LimitSec     int // current question's time limit, 0 if untimed
	RemainingSec int
	Err          error // load failure cause, or last save/submit failure
}

// Runner is the session state machine. One Runner per candidate session;
// all fields are owned by it and guarded by mu. Advance is re-entrancy
// guarded: while a save or submit is in flight every further advance request
// (click or timer expiry) is dropped, not queued.
type Runner struct {
	svc          Services
	submissionID string

	mu       sync.Mutex
	state    State
	def      fiche.Fiche
	index    int
	value    fiche.Answer
	epoch    int // bumped on every question activation; stale timer expiries are dropped
	inFlight bool
	lastErr  error

	timer *Timer
}

type RunnerOption func(*Runner)

// WithScheduler swaps the tick source (tests drive ticks by hand).
func WithScheduler(s Scheduler) RunnerOption {
	return func(r *Runner) { r.timer = NewTimer(s) }
}

func New(submissionID string, svc Services, opts ...RunnerOption) *Runner {
	r := &Runner{
		svc:          svc,
		submissionID: submissionID,
		state:        StateLoading,
	}
	r.timer = NewTimer(NewScheduler())
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load bootstraps the session: fetch the submission, refuse an already
// submitted one, fetch and normalize the fiche, activate question 0. A fetch
// failure moves the runner to StateErrored; no partial session is exposed.
func (r *Runner) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateLoading {
		r.mu.Unlock()
		return fmt.Errorf("session already loaded (state %s)", r.state)
	}
	r.mu.Unlock()

	sub, err := r.svc.Sessions.GetSubmission(ctx, r.submissionID)
	if err != nil {
		return r.loadFailed(fmt.Errorf("load submission %s: %w", r.submissionID, err))
	}
	if sub.Status == fiche.StatusSubmitted {
		r.mu.Lock()
		r.state = StateBlocked
		r.mu.Unlock()
		return nil
	}

	def, err := r.svc.Definitions.GetFiche(ctx, sub.FicheID)
	if err != nil {
		return r.loadFailed(fmt.Errorf("load fiche %s: %w", sub.FicheID, err))
	}
	def.Questions = fiche.Normalize(def.Questions)
	if len(def.Questions) == 0 {
		return r.loadFailed(fmt.Errorf("fiche %s has no questions", sub.FicheID))
	}

	r.mu.Lock()
	r.def = def
	r.index = 0
	r.state = StateActive
	r.activateLocked()
	r.mu.Unlock()
	return nil
}

func (r *Runner) loadFailed(err error) error {
	r.mu.Lock()
	r.state = StateErrored
	r.lastErr = err
	r.mu.Unlock()
	return err
}

// activateLocked resets the per-question state for the current index: fresh
// default value, fresh countdown. Caller holds mu.
func (r *Runner) activateLocked() {
	q := r.def.Questions[r.index]
	r.value = fiche.DefaultValue(q)
	r.epoch++
	epoch := r.epoch
	r.timer.Activate(q.TimeLimitSec, func() { r.expire(epoch) })
}

// SetAnswer replaces the current question's value wholesale. Ignored outside
// StateActive or while an advance is in flight.
func (r *Runner) SetAnswer(v fiche.Answer) {
	r.mu.Lock()
	if r.state == StateActive && !r.inFlight {
		r.value = v
	}
	r.mu.Unlock()
}

// Advance is the manual "next" action: validate, persist, move on, and on
// the last question submit the whole session.
func (r *Runner) Advance(ctx context.Context) error {
	return r.advance(ctx, false, 0)
}

// expire is the timer's expiry signal: persist whatever is there and move
// on, skipping the validation gate. Expiry on the last question persists but
// never submits.
func (r *Runner) expire(epoch int) {
	_ = r.advance(context.Background(), true, epoch)
}

func (r *Runner) advance(ctx context.Context, auto bool, epoch int) error {
	r.mu.Lock()
	if r.state != StateActive || r.inFlight {
		r.mu.Unlock()
		return nil // dropped: at-most-once, never queued
	}
	if auto && epoch != r.epoch {
		r.mu.Unlock()
		return nil // expiry raced a completed advance; the question is gone
	}
	q := r.def.Questions[r.index]
	v := r.value
	if !auto && !fiche.CanAdvance(q, v) {
		r.mu.Unlock()
		return ErrIncomplete
	}
	r.inFlight = true
	last := r.index == len(r.def.Questions)-1
	timeSpent := 0
	if q.TimeLimitSec > 0 {
		timeSpent = q.TimeLimitSec - r.timer.Remaining()
	}
	r.mu.Unlock()

	raw, err := fiche.EncodeAnswer(v)
	if err != nil {
		return r.advanceFailed(fmt.Errorf("encode answer %s: %w", q.ID, err))
	}
	rec := fiche.AnswerRecord{QuestionID: q.ID, Value: raw, TimeSpentSec: timeSpent, Auto: auto}
	if err := r.svc.Answers.SaveAnswer(ctx, r.submissionID, rec); err != nil {
		return r.advanceFailed(fmt.Errorf("save answer %s: %w", q.ID, err))
	}

	if !last {
		r.mu.Lock()
		r.lastErr = nil
		r.index++
		r.activateLocked()
		r.inFlight = false
		r.mu.Unlock()
		return nil
	}

	if auto {
		// Timeout on the final question: the answer is saved, but submission
		// requires an explicit user action.
		r.mu.Lock()
		r.lastErr = nil
		r.inFlight = false
		r.mu.Unlock()
		return nil
	}

	if err := r.svc.Submitter.Submit(ctx, r.submissionID); err != nil {
		return r.advanceFailed(fmt.Errorf("submit session %s: %w", r.submissionID, err))
	}
	r.mu.Lock()
	r.lastErr = nil
	r.state = StateCompleted
	r.inFlight = false
	r.timer.Stop()
	r.mu.Unlock()
	return nil
}

// advanceFailed records an inline failure and releases the guard; the
// session stays on the current question so the user can retry.
func (r *Runner) advanceFailed(err error) error {
	r.mu.Lock()
	r.lastErr = err
	r.inFlight = false
	r.mu.Unlock()
	return err
}

func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		State:        r.state,
		Index:        r.index,
		Total:        len(r.def.Questions),
		Value:        r.value,
		LimitSec:     r.timer.Limit(),
		RemainingSec: r.timer.Remaining(),
		Err:          r.lastErr,
	}
	if r.state == StateActive {
		s.Question = r.def.Questions[r.index]
	}
	return s
}
