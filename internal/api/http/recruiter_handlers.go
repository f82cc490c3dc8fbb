package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/recrutech/recrutech-screening/internal/fiche"
)

// POST /api/fiches
// Upload a fiche definition. Questions are normalized on write (ids
// assigned, scales completed), and the stored form is returned.
func CreateFicheHandler(store fiche.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f fiche.Fiche
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(f.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		out, err := store.PutFiche(r.Context(), f)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

// POST /api/submissions  { "fiche_id": "...", "candidate": "..." }
// Invite a candidate: creates a NOT_STARTED submission for the fiche.
func CreateSubmissionHandler(store fiche.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FicheID   string `json:"fiche_id"`
			Candidate string `json:"candidate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.FicheID == "" || req.Candidate == "" {
			http.Error(w, "fiche_id and candidate required", http.StatusBadRequest)
			return
		}
		sub, err := store.NewSubmission(r.Context(), req.FicheID, req.Candidate)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, sub)
	}
}

// GET /api/submissions?fiche_id=...&status=...&limit=50&offset=0
func ListSubmissionsHandler(store fiche.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := fiche.ListOpts{
			FicheID: strings.TrimSpace(r.URL.Query().Get("fiche_id")),
			Status:  strings.TrimSpace(r.URL.Query().Get("status")),
			Limit:   parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:  parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		list, err := store.ListSubmissions(r.Context(), opts)
		if err != nil {
			httpError(w, err)
			return
		}
		if list == nil {
			list = []fiche.Submission{}
		}
		writeJSON(w, list)
	}
}

// GET /api/submissions/{submissionID}/answers
// Recruiter review of a candidate's persisted answers.
func GetAnswersHandler(store fiche.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := store.GetAnswers(r.Context(), chi.URLParam(r, "submissionID"))
		if err != nil {
			httpError(w, err)
			return
		}
		if recs == nil {
			recs = []fiche.AnswerRecord{}
		}
		writeJSON(w, recs)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
