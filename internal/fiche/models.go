package fiche

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadySubmitted = errors.New("submission already submitted")
)

// QuestionType is the closed set of question kinds a fiche can carry.
type QuestionType string

const (
	TypeText         QuestionType = "text"
	TypeTextarea     QuestionType = "textarea"
	TypeSingleChoice QuestionType = "single_choice"
	TypeMultiChoice  QuestionType = "multi_choice"
	TypeScaleGroup   QuestionType = "scale_group"
)

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ScaleItem is one rated line of a scale-group question.
type ScaleItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Scale is the ordinal band shared by all items of a scale-group question.
// Labels maps the stringified level ("0".."4" by default) to its display text.
type Scale struct {
	Min    int               `json:"min"`
	Max    int               `json:"max"`
	Labels map[string]string `json:"labels,omitempty"`
}

type Question struct {
	ID           string       `json:"id"`
	Label        string       `json:"label"`
	Type         QuestionType `json:"type"`
	Required     bool         `json:"required,omitempty"`
	TimeLimitSec int          `json:"time_limit_sec,omitempty"` // 0 = untimed

	Options []Option    `json:"options,omitempty"` // single_choice, multi_choice
	Items   []ScaleItem `json:"items,omitempty"`   // scale_group
	Scale   *Scale      `json:"scale,omitempty"`   // scale_group
}

// Fiche is a questionnaire definition ("fiche de renseignement").
// Immutable once loaded; the runner never mutates it.
type Fiche struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

type SubmissionStatus string

const (
	StatusNotStarted SubmissionStatus = "NOT_STARTED"
	StatusInProgress SubmissionStatus = "IN_PROGRESS"
	StatusSubmitted  SubmissionStatus = "SUBMITTED"
)

// Submission is a candidate's attempt at a fiche.
type Submission struct {
	ID          string           `json:"id"`
	FicheID     string           `json:"fiche_id"`
	Candidate   string           `json:"candidate"` // email or display name
	Status      SubmissionStatus `json:"status"`
	CreatedAt   int64            `json:"created_at,omitempty"`
	SubmittedAt int64            `json:"submitted_at,omitempty"`
}
