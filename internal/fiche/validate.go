package fiche

import "strings"

// CanAdvance reports whether a question's current value is complete enough
// for a manual advance. Non-required questions always pass. A value of the
// wrong shape counts as unanswered. Automatic (timeout) advancement never
// consults this gate.
func CanAdvance(q Question, v Answer) bool {
	if !q.Required {
		return true
	}
	switch q.Type {
	case TypeText, TypeTextarea, TypeSingleChoice:
		s, ok := v.(TextAnswer)
		return ok && strings.TrimSpace(string(s)) != ""
	case TypeMultiChoice:
		c, ok := v.(ChoiceAnswer)
		return ok && len(c) > 0
	case TypeScaleGroup:
		m, ok := v.(ScaleAnswer)
		if !ok {
			return false
		}
		for _, it := range q.Items {
			if m[it.ID] == "" {
				return false
			}
		}
		return true
	default:
		return false
	}
}
