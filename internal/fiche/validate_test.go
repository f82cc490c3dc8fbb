package fiche_test

import (
	"testing"

	"github.com/recrutech/recrutech-screening/internal/fiche"
)

func TestCanAdvanceNotRequired(t *testing.T) {
	q := fiche.Question{Type: fiche.TypeText, Required: false}
	if !fiche.CanAdvance(q, fiche.TextAnswer("")) {
		t.Error("non-required question must always advance")
	}
}

func TestCanAdvanceRequiredText(t *testing.T) {
	q := fiche.Question{Type: fiche.TypeText, Required: true}
	if fiche.CanAdvance(q, fiche.TextAnswer("")) {
		t.Error("empty text must not advance")
	}
	if fiche.CanAdvance(q, fiche.TextAnswer("   ")) {
		t.Error("whitespace-only text must not advance")
	}
	if !fiche.CanAdvance(q, fiche.TextAnswer("Dupont")) {
		t.Error("filled text must advance")
	}
}

func TestCanAdvanceRequiredChoice(t *testing.T) {
	single := fiche.Question{Type: fiche.TypeSingleChoice, Required: true}
	if fiche.CanAdvance(single, fiche.TextAnswer("")) {
		t.Error("unselected single choice must not advance")
	}
	if !fiche.CanAdvance(single, fiche.TextAnswer("opt-1")) {
		t.Error("selected single choice must advance")
	}

	multi := fiche.Question{Type: fiche.TypeMultiChoice, Required: true}
	if fiche.CanAdvance(multi, fiche.ChoiceAnswer{}) {
		t.Error("empty multi choice must not advance")
	}
	if !fiche.CanAdvance(multi, fiche.ChoiceAnswer{"a"}) {
		t.Error("non-empty multi choice must advance")
	}
}

// Required scale group with items A and B: the gate opens only once both
// items carry a level, regardless of the order they were set in.
func TestCanAdvanceRequiredScaleGroup(t *testing.T) {
	q := scaleGroupQuestion(true)
	v := fiche.ScaleAnswer{}
	if fiche.CanAdvance(q, v) {
		t.Error("no items set: must not advance")
	}
	v["sql"] = "2"
	if fiche.CanAdvance(q, v) {
		t.Error("one of two items set: must not advance")
	}
	v["go"] = "4"
	if !fiche.CanAdvance(q, v) {
		t.Error("both items set: must advance")
	}

	// opposite order
	v2 := fiche.ScaleAnswer{"go": "1"}
	if fiche.CanAdvance(q, v2) {
		t.Error("one of two items set: must not advance")
	}
	v2["sql"] = "0"
	if !fiche.CanAdvance(q, v2) {
		t.Error("both items set: must advance")
	}
}

func TestCanAdvanceWrongValueShape(t *testing.T) {
	q := fiche.Question{Type: fiche.TypeMultiChoice, Required: true}
	if fiche.CanAdvance(q, fiche.TextAnswer("oops")) {
		t.Error("value of the wrong shape must count as unanswered")
	}
}
