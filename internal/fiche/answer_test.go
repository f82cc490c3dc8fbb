package fiche_test

import (
	"encoding/json"
	"testing"

	"github.com/recrutech/recrutech-screening/internal/fiche"
)

func scaleGroupQuestion(required bool) fiche.Question {
	return fiche.Normalize([]fiche.Question{{
		Type:     fiche.TypeScaleGroup,
		Required: required,
		Items: []fiche.ScaleItem{
			{ID: "go", Label: "Go"},
			{ID: "sql", Label: "SQL"},
		},
	}})[0]
}

func TestDefaultValuePerType(t *testing.T) {
	if v := fiche.DefaultValue(fiche.Question{Type: fiche.TypeText}); v != fiche.TextAnswer("") {
		t.Errorf("text default: got %#v", v)
	}
	if v := fiche.DefaultValue(fiche.Question{Type: fiche.TypeMultiChoice}); len(v.(fiche.ChoiceAnswer)) != 0 {
		t.Errorf("multi-choice default: got %#v", v)
	}
	q := scaleGroupQuestion(false)
	m, ok := fiche.DefaultValue(q).(fiche.ScaleAnswer)
	if !ok {
		t.Fatalf("scale default: got %#v", fiche.DefaultValue(q))
	}
	if m["go"] != "0" || m["sql"] != "0" {
		t.Errorf("scale default must map every item to the minimum: %v", m)
	}
}

func TestDefaultValueUsesScaleMin(t *testing.T) {
	q := fiche.Normalize([]fiche.Question{{
		Type:  fiche.TypeScaleGroup,
		Items: []fiche.ScaleItem{{ID: "a", Label: "A"}},
		Scale: &fiche.Scale{Min: 1, Max: 5},
	}})[0]
	m := fiche.DefaultValue(q).(fiche.ScaleAnswer)
	if m["a"] != "1" {
		t.Errorf("want item at scale min 1, got %q", m["a"])
	}
}

// Non-required questions must always be advanceable from their default value.
func TestDefaultValueAdvancesWhenNotRequired(t *testing.T) {
	qs := []fiche.Question{
		{Type: fiche.TypeText},
		{Type: fiche.TypeTextarea},
		{Type: fiche.TypeSingleChoice},
		{Type: fiche.TypeMultiChoice},
		scaleGroupQuestion(false),
	}
	for _, q := range qs {
		if !fiche.CanAdvance(q, fiche.DefaultValue(q)) {
			t.Errorf("%s: default value must pass the gate when not required", q.Type)
		}
	}
}

func TestAnswerRoundTrip(t *testing.T) {
	cases := []struct {
		q fiche.Question
		v fiche.Answer
	}{
		{fiche.Question{Type: fiche.TypeText}, fiche.TextAnswer("Dupont")},
		{fiche.Question{Type: fiche.TypeSingleChoice}, fiche.TextAnswer("opt-1")},
		{fiche.Question{Type: fiche.TypeMultiChoice}, fiche.ChoiceAnswer{"a", "b"}},
		{scaleGroupQuestion(false), fiche.ScaleAnswer{"go": "3", "sql": "1"}},
	}
	for _, c := range cases {
		raw, err := fiche.EncodeAnswer(c.v)
		if err != nil {
			t.Fatalf("%s: encode: %v", c.q.Type, err)
		}
		got, err := fiche.DecodeAnswer(c.q, raw)
		if err != nil {
			t.Fatalf("%s: decode: %v", c.q.Type, err)
		}
		want, _ := json.Marshal(c.v)
		gotJSON, _ := json.Marshal(got)
		if string(want) != string(gotJSON) {
			t.Errorf("%s: round trip %s != %s", c.q.Type, gotJSON, want)
		}
	}
}

func TestDecodeAnswerRejectsWrongShape(t *testing.T) {
	if _, err := fiche.DecodeAnswer(fiche.Question{Type: fiche.TypeMultiChoice}, json.RawMessage(`"not-an-array"`)); err == nil {
		t.Error("multi-choice: want error for string payload")
	}
	if _, err := fiche.DecodeAnswer(fiche.Question{Type: fiche.TypeText}, json.RawMessage(`{"x":1}`)); err == nil {
		t.Error("text: want error for object payload")
	}
}

func TestDecodeAnswerEmptyFallsBackToDefault(t *testing.T) {
	q := scaleGroupQuestion(false)
	v, err := fiche.DecodeAnswer(q, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m := v.(fiche.ScaleAnswer); m["go"] != "0" {
		t.Errorf("empty raw must decode to the default value, got %v", m)
	}
}
