package fiche_test

import (
	"testing"

	"github.com/recrutech/recrutech-screening/internal/fiche"
)

func TestNormalizeAssignsIDs(t *testing.T) {
	in := []fiche.Question{
		{Label: "Prénom", Type: fiche.TypeText},
		{Label: "Compétences", Type: fiche.TypeScaleGroup, Items: []fiche.ScaleItem{
			{Label: "Go"},
			{ID: "item-sql", Label: "SQL"},
		}},
		{Label: "Diplôme", Type: fiche.TypeSingleChoice, Options: []fiche.Option{
			{Label: "Bac+3"},
			{Label: "Bac+5"},
		}},
	}
	out := fiche.Normalize(in)
	if len(out) != 3 {
		t.Fatalf("want 3 questions, got %d", len(out))
	}
	for i, q := range out {
		if q.ID == "" {
			t.Errorf("question %d: missing id", i)
		}
	}
	if out[1].Items[0].ID == "" {
		t.Errorf("item without id was not assigned one")
	}
	if out[1].Items[1].ID != "item-sql" {
		t.Errorf("existing item id was regenerated: %q", out[1].Items[1].ID)
	}
	for i, o := range out[2].Options {
		if o.ID == "" {
			t.Errorf("option %d: missing id", i)
		}
	}
	// ids must be stable: normalizing the normalized list changes nothing
	again := fiche.Normalize(out)
	for i := range out {
		if again[i].ID != out[i].ID {
			t.Errorf("question %d: id changed on re-normalize", i)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []fiche.Question{{Label: "Q", Type: fiche.TypeScaleGroup}}
	_ = fiche.Normalize(in)
	if in[0].ID != "" || in[0].Scale != nil {
		t.Errorf("input was mutated: %+v", in[0])
	}
}

func TestNormalizeDefaultsUnknownType(t *testing.T) {
	out := fiche.Normalize([]fiche.Question{{Label: "Q"}})
	if out[0].Type != fiche.TypeText {
		t.Errorf("want default type %s, got %s", fiche.TypeText, out[0].Type)
	}
	if out[0].Options == nil || out[0].Items == nil {
		t.Errorf("option/item slices must be non-nil")
	}
}

func TestNormalizeScaleDefaults(t *testing.T) {
	out := fiche.Normalize([]fiche.Question{{Type: fiche.TypeScaleGroup}})
	s := out[0].Scale
	if s == nil {
		t.Fatal("scale-group question must end up with a scale")
	}
	if s.Min != 0 || s.Max != 4 {
		t.Errorf("default band: want 0..4, got %d..%d", s.Min, s.Max)
	}
	if s.Labels["0"] != "Néant" || s.Labels["4"] != "Expert" {
		t.Errorf("default labels wrong: %v", s.Labels)
	}
}

func TestNormalizeScaleMerge(t *testing.T) {
	out := fiche.Normalize([]fiche.Question{{
		Type:  fiche.TypeScaleGroup,
		Scale: &fiche.Scale{Max: 5, Labels: map[string]string{"5": "Référent"}},
	}})
	s := out[0].Scale
	if s.Min != 0 || s.Max != 5 {
		t.Errorf("caller max must win: got %d..%d", s.Min, s.Max)
	}
	if s.Labels["5"] != "Référent" {
		t.Errorf("caller label must win: %v", s.Labels)
	}
	if s.Labels["0"] != "Néant" {
		t.Errorf("default labels must survive a partial override: %v", s.Labels)
	}
}
