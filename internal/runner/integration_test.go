package runner_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/recrutech/recrutech-screening/internal/api/http"
	"github.com/recrutech/recrutech-screening/internal/fiche"
	"github.com/recrutech/recrutech-screening/internal/runner"
)

// Full loop: Runner -> HTTP Client -> chi handlers -> store. The auth layer
// is mounted separately in the gateway and is not part of this loop.
func TestRunnerOverHTTP(t *testing.T) {
	ctx := context.Background()
	store := fiche.NewInMemoryStore()
	f, err := store.PutFiche(ctx, fiche.Fiche{
		Title: "Fiche de renseignement",
		Questions: []fiche.Question{
			{ID: "q1", Label: "Nom", Type: fiche.TypeText, Required: true},
			{ID: "q2", Label: "Auto-évaluation", Type: fiche.TypeScaleGroup,
				Items: []fiche.ScaleItem{{ID: "go", Label: "Go"}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	sub, err := store.NewSubmission(ctx, f.ID, "a.dupont@example.fr")
	if err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	r.Get("/api/submissions/{submissionID}", api.GetSubmissionHandler(store))
	r.Get("/api/fiches/{ficheID}", api.GetFicheHandler(store))
	r.Post("/api/submissions/{submissionID}/answers", api.SaveAnswerHandler(store, nil))
	r.Post("/api/submissions/{submissionID}/submit", api.SubmitHandler(store, nil))
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := runner.NewClient(runner.ClientConfig{BaseURL: srv.URL})
	run := runner.New(sub.ID, runner.Services{
		Sessions:    client,
		Definitions: client,
		Answers:     client,
		Submitter:   client,
	}, runner.WithScheduler(&fakeScheduler{}))

	if err := run.Load(ctx); err != nil {
		t.Fatal(err)
	}
	run.SetAnswer(fiche.TextAnswer("Dupont"))
	if err := run.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	run.SetAnswer(fiche.ScaleAnswer{"go": "3"})
	if err := run.Advance(ctx); err != nil {
		t.Fatal(err)
	}

	if snap := run.Snapshot(); snap.State != runner.StateCompleted {
		t.Fatalf("want completed, got %s", snap.State)
	}
	got, _ := store.GetSubmission(ctx, sub.ID)
	if got.Status != fiche.StatusSubmitted {
		t.Errorf("backend status: want SUBMITTED, got %s", got.Status)
	}
	answers, _ := store.GetAnswers(ctx, sub.ID)
	if len(answers) != 2 {
		t.Errorf("want 2 persisted answers, got %d", len(answers))
	}

	// a second runner on the same session is blocked at bootstrap
	rerun := runner.New(sub.ID, runner.Services{
		Sessions: client, Definitions: client, Answers: client, Submitter: client,
	}, runner.WithScheduler(&fakeScheduler{}))
	if err := rerun.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if snap := rerun.Snapshot(); snap.State != runner.StateBlocked {
		t.Errorf("re-entry after submission: want blocked, got %s", snap.State)
	}
}
