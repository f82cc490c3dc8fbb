package fiche

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is the closed set of answer value shapes. Adding a question type
// means adding a variant here and extending the switches in DefaultValue,
// CanAdvance and DecodeAnswer.
type Answer interface{ isAnswer() }

// TextAnswer carries text, textarea and single_choice values.
type TextAnswer string

// ChoiceAnswer carries the selected option ids of a multi_choice question.
type ChoiceAnswer []string

// ScaleAnswer maps scale-group item ids to the selected level (stringified).
type ScaleAnswer map[string]string

func (TextAnswer) isAnswer()   {}
func (ChoiceAnswer) isAnswer() {}
func (ScaleAnswer) isAnswer()  {}

// DefaultValue returns the empty value a question starts with when it
// becomes active. Scale groups start with every item at the scale minimum.
func DefaultValue(q Question) Answer {
	switch q.Type {
	case TypeText, TypeTextarea, TypeSingleChoice:
		return TextAnswer("")
	case TypeMultiChoice:
		return ChoiceAnswer{}
	case TypeScaleGroup:
		min := 0
		if q.Scale != nil {
			min = q.Scale.Min
		}
		v := make(ScaleAnswer, len(q.Items))
		for _, it := range q.Items {
			v[it.ID] = strconv.Itoa(min)
		}
		return v
	default:
		return TextAnswer("")
	}
}

// EncodeAnswer serializes an answer value for persistence.
func EncodeAnswer(v Answer) (json.RawMessage, error) {
	if v == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(v)
}

// DecodeAnswer parses a raw persisted value according to the question type.
func DecodeAnswer(q Question, raw json.RawMessage) (Answer, error) {
	if len(raw) == 0 {
		return DefaultValue(q), nil
	}
	switch q.Type {
	case TypeText, TypeTextarea, TypeSingleChoice:
		var s TextAnswer
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", q.Type, err)
		}
		return s, nil
	case TypeMultiChoice:
		var c ChoiceAnswer
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", q.Type, err)
		}
		return c, nil
	case TypeScaleGroup:
		var m ScaleAnswer
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", q.Type, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", q.Type)
	}
}

// AnswerRecord is one persisted answer, as sent to the backend.
type AnswerRecord struct {
	QuestionID   string          `json:"question_id"`
	Value        json.RawMessage `json:"value"`
	TimeSpentSec int             `json:"time_spent_sec"`
	Auto         bool            `json:"auto"`
	SavedAt      int64           `json:"saved_at,omitempty"`
}
