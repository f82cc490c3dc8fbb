package fiche

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutFiche(ctx context.Context, f Fiche) (Fiche, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.Questions = Normalize(f.Questions)
	if f.CreatedAt == 0 {
		f.CreatedAt = time.Now().Unix()
	}
	qj, err := json.Marshal(f.Questions)
	if err != nil {
		return Fiche{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO fiches (id,title,description,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description, questions_json=EXCLUDED.questions_json`,
		f.ID, f.Title, f.Description, string(qj), f.CreatedAt)
	if err != nil {
		return Fiche{}, err
	}
	return f, nil
}

func (s *SQLStore) GetFiche(ctx context.Context, id string) (Fiche, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,description,questions_json,created_at FROM fiches WHERE id=$1`, id)
	var f Fiche
	var qjson string
	if err := row.Scan(&f.ID, &f.Title, &f.Description, &qjson, &f.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Fiche{}, ErrNotFound
		}
		return Fiche{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &f.Questions); err != nil {
		return Fiche{}, fmt.Errorf("fiche %s: %w", id, err)
	}
	// Stored fiches are normalized on write; normalize again so rows written
	// by older schema revisions still come out well-formed.
	f.Questions = Normalize(f.Questions)
	return f, nil
}

func (s *SQLStore) NewSubmission(ctx context.Context, ficheID, candidate string) (Submission, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM fiches WHERE id=$1`, ficheID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	sub := Submission{
		ID:        uuid.NewString(),
		FicheID:   ficheID,
		Candidate: candidate,
		Status:    StatusNotStarted,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO submissions (id,fiche_id,candidate,status,created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		sub.ID, sub.FicheID, sub.Candidate, string(sub.Status), sub.CreatedAt)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,fiche_id,candidate,status,created_at,COALESCE(submitted_at,0)
		FROM submissions WHERE id=$1`, id)
	var sub Submission
	var status string
	if err := row.Scan(&sub.ID, &sub.FicheID, &sub.Candidate, &status, &sub.CreatedAt, &sub.SubmittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	sub.Status = SubmissionStatus(status)
	return sub, nil
}

func (s *SQLStore) ListSubmissions(ctx context.Context, opts ListOpts) ([]Submission, error) {
	q := `SELECT id,fiche_id,candidate,status,created_at,COALESCE(submitted_at,0) FROM submissions WHERE 1=1`
	args := []any{}
	n := 0
	if opts.FicheID != "" {
		n++
		q += fmt.Sprintf(" AND fiche_id=$%d", n)
		args = append(args, opts.FicheID)
	}
	if opts.Status != "" {
		n++
		q += fmt.Sprintf(" AND status=$%d", n)
		args = append(args, opts.Status)
	}
	q += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		n++
		q += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		n++
		q += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, opts.Offset)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Submission
	for rows.Next() {
		var sub Submission
		var status string
		if err := rows.Scan(&sub.ID, &sub.FicheID, &sub.Candidate, &status, &sub.CreatedAt, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		sub.Status = SubmissionStatus(status)
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveAnswer(ctx context.Context, submissionID string, rec AnswerRecord) error {
	sub, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.Status == StatusSubmitted {
		return ErrAlreadySubmitted
	}
	rec.SavedAt = time.Now().Unix()
	// Last-write-wins per (submission, question): a retried save replaces the
	// previous row instead of duplicating it.
	_, err = s.db.ExecContext(ctx, `INSERT INTO answers (submission_id,question_id,value_json,time_spent_sec,auto,saved_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (submission_id,question_id) DO UPDATE SET
			value_json=EXCLUDED.value_json, time_spent_sec=EXCLUDED.time_spent_sec,
			auto=EXCLUDED.auto, saved_at=EXCLUDED.saved_at`,
		submissionID, rec.QuestionID, string(rec.Value), rec.TimeSpentSec, rec.Auto, rec.SavedAt)
	if err != nil {
		return err
	}
	if sub.Status == StatusNotStarted {
		_, err = s.db.ExecContext(ctx, `UPDATE submissions SET status=$1 WHERE id=$2 AND status=$3`,
			string(StatusInProgress), submissionID, string(StatusNotStarted))
	}
	return err
}

func (s *SQLStore) GetAnswers(ctx context.Context, submissionID string) ([]AnswerRecord, error) {
	if _, err := s.GetSubmission(ctx, submissionID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT question_id,value_json,time_spent_sec,auto,saved_at
		FROM answers WHERE submission_id=$1 ORDER BY saved_at, question_id`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AnswerRecord
	for rows.Next() {
		var rec AnswerRecord
		var vjson string
		if err := rows.Scan(&rec.QuestionID, &vjson, &rec.TimeSpentSec, &rec.Auto, &rec.SavedAt); err != nil {
			return nil, err
		}
		rec.Value = json.RawMessage(vjson)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) Submit(ctx context.Context, submissionID string) error {
	sub, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.Status == StatusSubmitted {
		return nil
	}
	_, err = s.db.ExecContext(ctx, `UPDATE submissions SET status=$1, submitted_at=$2 WHERE id=$3`,
		string(StatusSubmitted), time.Now().Unix(), submissionID)
	return err
}
