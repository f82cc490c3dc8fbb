package fiche

import "github.com/google/uuid"

// DefaultScale is the 0-4 band used when a scale-group question carries no
// scale of its own. Labels match the levels shown to candidates.
func DefaultScale() *Scale {
	return &Scale{
		Min: 0,
		Max: 4,
		Labels: map[string]string{
			"0": "Néant",
			"1": "Débutant",
			"2": "Intermédiaire",
			"3": "Avancé",
			"4": "Expert",
		},
	}
}

// Normalize shapes a raw, possibly partial question list into well-formed
// questions: every question, option and item gets a stable id if it arrived
// without one, choice/item slices are never nil, and every scale-group
// question ends up with a complete scale (caller values win field-by-field
// over the default band). Input is not mutated.
func Normalize(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Type == "" {
			q.Type = TypeText
		}

		opts := make([]Option, 0, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				o.ID = uuid.NewString()
			}
			opts = append(opts, o)
		}
		q.Options = opts

		items := make([]ScaleItem, 0, len(q.Items))
		for _, it := range q.Items {
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			items = append(items, it)
		}
		q.Items = items

		if q.Type == TypeScaleGroup {
			q.Scale = mergeScale(q.Scale)
		}

		out[i] = q
	}
	return out
}

// mergeScale overlays a partial scale on the default band. A zero Min is
// indistinguishable from "unset" and falls back to the default band's 0,
// which is also the default minimum.
func mergeScale(in *Scale) *Scale {
	s := DefaultScale()
	if in == nil {
		return s
	}
	if in.Min != 0 {
		s.Min = in.Min
	}
	if in.Max != 0 {
		s.Max = in.Max
	}
	if len(in.Labels) > 0 {
		for k, v := range in.Labels {
			s.Labels[k] = v
		}
	}
	return s
}
