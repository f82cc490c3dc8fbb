package runner_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/recrutech/recrutech-screening/internal/fiche"
	"github.com/recrutech/recrutech-screening/internal/runner"
)

func TestClientMapsStatusesToSentinels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/submissions/missing":
			http.Error(w, "not found", http.StatusNotFound)
		case "/api/submissions/done/answers":
			http.Error(w, "already submitted", http.StatusConflict)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := runner.NewClient(runner.ClientConfig{BaseURL: srv.URL})
	ctx := context.Background()

	if _, err := c.GetSubmission(ctx, "missing"); !errors.Is(err, fiche.ErrNotFound) {
		t.Errorf("404: want ErrNotFound, got %v", err)
	}
	err := c.SaveAnswer(ctx, "done", fiche.AnswerRecord{QuestionID: "q1"})
	if !errors.Is(err, fiche.ErrAlreadySubmitted) {
		t.Errorf("409: want ErrAlreadySubmitted, got %v", err)
	}
	if err := c.Submit(ctx, "whatever"); err == nil {
		t.Error("500: want error")
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"sub-1","fiche_id":"fiche-1","candidate":"x","status":"NOT_STARTED"}`))
	}))
	defer srv.Close()

	c := runner.NewClient(runner.ClientConfig{BaseURL: srv.URL, Token: "tok-abc"})
	sub, err := c.GetSubmission(context.Background(), "sub-1")
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("authorization header: %q", gotAuth)
	}
	if sub.ID != "sub-1" || sub.Status != fiche.StatusNotStarted {
		t.Errorf("decoded submission: %+v", sub)
	}
}
