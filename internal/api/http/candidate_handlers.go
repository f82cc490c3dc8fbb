package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/recrutech/recrutech-screening/internal/auth/middleware"
	"github.com/recrutech/recrutech-screening/internal/audit"
	"github.com/recrutech/recrutech-screening/internal/fiche"
)

// ownSubmission rejects candidate tokens that are scoped to a different
// submission than the one in the URL. Recruiter tokens carry no scope and
// pass through.
func ownSubmission(r *http.Request, submissionID string) bool {
	scope := auth.SubmissionFromContext(r.Context())
	return scope == "" || scope == submissionID
}

// GET /api/submissions/{submissionID}
// Session bootstrap: status + fiche id. The runner's guard reads Status and
// refuses SUBMITTED sessions before ever fetching the fiche.
func GetSubmissionHandler(store fiche.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		if !ownSubmission(r, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		sub, err := store.GetSubmission(r.Context(), id)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, sub)
	}
}

// GET /api/fiches/{ficheID}
// Normalized questionnaire definition.
func GetFicheHandler(store fiche.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := store.GetFiche(r.Context(), chi.URLParam(r, "ficheID"))
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, f)
	}
}

// POST /api/submissions/{submissionID}/answers
// One answer per call, last-write-wins per question. The value is decoded
// against the question type so a malformed payload is rejected instead of
// stored.
func SaveAnswerHandler(store fiche.Store, events *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		if !ownSubmission(r, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var rec fiche.AnswerRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if rec.QuestionID == "" {
			http.Error(w, "question_id required", http.StatusBadRequest)
			return
		}

		sub, err := store.GetSubmission(r.Context(), id)
		if err != nil {
			httpError(w, err)
			return
		}
		f, err := store.GetFiche(r.Context(), sub.FicheID)
		if err != nil {
			httpError(w, err)
			return
		}
		var q *fiche.Question
		for i := range f.Questions {
			if f.Questions[i].ID == rec.QuestionID {
				q = &f.Questions[i]
				break
			}
		}
		if q == nil {
			http.Error(w, "unknown question", http.StatusBadRequest)
			return
		}
		if _, err := fiche.DecodeAnswer(*q, rec.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := store.SaveAnswer(r.Context(), id, rec); err != nil {
			httpError(w, err)
			return
		}
		_ = events.Append(r.Context(), audit.EventAnswerSaved, id, map[string]any{
			"question_id": rec.QuestionID, "auto": rec.Auto, "time_spent_sec": rec.TimeSpentSec,
			"subject": auth.SubjectFromContext(r.Context()),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/submissions/{submissionID}/submit
// Final submission; submitting twice is a no-op success.
func SubmitHandler(store fiche.Store, events *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		if !ownSubmission(r, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := store.Submit(r.Context(), id); err != nil {
			httpError(w, err)
			return
		}
		_ = events.Append(r.Context(), audit.EventFicheSubmitted, id, map[string]any{
			"subject": auth.SubjectFromContext(r.Context()),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fiche.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, fiche.ErrAlreadySubmitted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
