package fiche

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ListOpts struct {
	FicheID string
	Status  string
	Limit   int
	Offset  int
}

// Store is the backend surface the questionnaire runner and the HTTP API
// talk to: fiche definitions, candidate submissions, answers.
type Store interface {
	PutFiche(ctx context.Context, f Fiche) (Fiche, error)
	GetFiche(ctx context.Context, id string) (Fiche, error)

	NewSubmission(ctx context.Context, ficheID, candidate string) (Submission, error)
	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissions(ctx context.Context, opts ListOpts) ([]Submission, error)

	// SaveAnswer upserts one answer, last-write-wins per question, and moves
	// a NOT_STARTED submission to IN_PROGRESS. A SUBMITTED submission
	// rejects further answers.
	SaveAnswer(ctx context.Context, submissionID string, rec AnswerRecord) error
	GetAnswers(ctx context.Context, submissionID string) ([]AnswerRecord, error)

	// Submit transitions the submission to SUBMITTED. Submitting twice is a
	// no-op success.
	Submit(ctx context.Context, submissionID string) error
}

type memoryStore struct {
	mu          sync.RWMutex
	fiches      map[string]Fiche
	submissions map[string]Submission
	answers     map[string][]AnswerRecord // submissionID -> answers in first-save order
}

func NewInMemoryStore() Store {
	return &memoryStore{
		fiches:      map[string]Fiche{},
		submissions: map[string]Submission{},
		answers:     map[string][]AnswerRecord{},
	}
}

func (m *memoryStore) PutFiche(ctx context.Context, f Fiche) (Fiche, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.Questions = Normalize(f.Questions)
	if f.CreatedAt == 0 {
		f.CreatedAt = time.Now().Unix()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fiches[f.ID] = f
	return f, nil
}

func (m *memoryStore) GetFiche(ctx context.Context, id string) (Fiche, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fiches[id]
	if !ok {
		return Fiche{}, ErrNotFound
	}
	return f, nil
}

func (m *memoryStore) NewSubmission(ctx context.Context, ficheID, candidate string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.fiches[ficheID]; !ok {
		return Submission{}, ErrNotFound
	}
	s := Submission{
		ID:        uuid.NewString(),
		FicheID:   ficheID,
		Candidate: candidate,
		Status:    StatusNotStarted,
		CreatedAt: time.Now().Unix(),
	}
	m.submissions[s.ID] = s
	return s, nil
}

func (m *memoryStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) ListSubmissions(ctx context.Context, opts ListOpts) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Submission, 0, len(m.submissions))
	for _, s := range m.submissions {
		if opts.FicheID != "" && s.FicheID != opts.FicheID {
			continue
		}
		if opts.Status != "" && string(s.Status) != opts.Status {
			continue
		}
		out = append(out, s)
	}
	// newest first, same order the SQL store returns; id breaks the
	// second-granularity timestamp ties deterministically
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) SaveAnswer(ctx context.Context, submissionID string, rec AnswerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[submissionID]
	if !ok {
		return ErrNotFound
	}
	if s.Status == StatusSubmitted {
		return ErrAlreadySubmitted
	}
	if s.Status == StatusNotStarted {
		s.Status = StatusInProgress
		m.submissions[submissionID] = s
	}
	rec.SavedAt = time.Now().Unix()
	list := m.answers[submissionID]
	for i := range list {
		if list[i].QuestionID == rec.QuestionID {
			list[i] = rec
			return nil
		}
	}
	m.answers[submissionID] = append(list, rec)
	return nil
}

func (m *memoryStore) GetAnswers(ctx context.Context, submissionID string) ([]AnswerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.submissions[submissionID]; !ok {
		return nil, ErrNotFound
	}
	list := m.answers[submissionID]
	out := make([]AnswerRecord, len(list))
	copy(out, list)
	return out, nil
}

func (m *memoryStore) Submit(ctx context.Context, submissionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[submissionID]
	if !ok {
		return ErrNotFound
	}
	if s.Status == StatusSubmitted {
		return nil
	}
	s.Status = StatusSubmitted
	s.SubmittedAt = time.Now().Unix()
	m.submissions[submissionID] = s
	return nil
}
