package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	EventAnswerSaved    = "AnswerSaved"
	EventFicheSubmitted = "FicheSubmitted"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string // submission id
	DataJSON  string
	CreatedAt int64
}

// EventRepo appends screening lifecycle events to the append-only event_log
// table. Nil-safe: a nil repo drops events, so audit stays optional in tests
// and in-memory setups.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, typ, key string, data any) error {
	if r == nil || r.db == nil {
		return nil
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	return err
}
