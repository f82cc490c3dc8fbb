package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/recrutech/recrutech-screening/internal/api/http"
	"github.com/recrutech/recrutech-screening/internal/audit"
	auth "github.com/recrutech/recrutech-screening/internal/auth/middleware"
	"github.com/recrutech/recrutech-screening/internal/config"
	"github.com/recrutech/recrutech-screening/internal/db"
	"github.com/recrutech/recrutech-screening/internal/fiche"
	"github.com/recrutech/recrutech-screening/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := fiche.NewSQLStore(dbh, cfg.DBDriver)
	events := audit.NewEventRepo(dbh)

	if cfg.FicheSeedDir != "" {
		n, err := fiche.LoadSeedDir(ctx, cfg.FicheSeedDir, store)
		if err != nil {
			log.Fatalf("fiche seed: %v", err)
		}
		log.Printf("seeded %d fiche(s) from %s", n, cfg.FicheSeedDir)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.RecruiterUser, cfg.RecruiterPassHash))
	r.Post("/auth/candidate-token", auth.CandidateTokenHandler(authSvc, store))

	// Protected API (JWT → role in context → RBAC; candidate tokens are
	// additionally scoped to their own submission by the handlers)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Candidate flow
		pr.With(rbac.RequireAny("submission:view-own", "submission:review")).
			Get("/api/submissions/{submissionID}", api.GetSubmissionHandler(store))
		pr.With(rbac.Require("fiche:view")).
			Get("/api/fiches/{ficheID}", api.GetFicheHandler(store))
		pr.With(rbac.Require("submission:answer")).
			Post("/api/submissions/{submissionID}/answers", api.SaveAnswerHandler(store, events))
		pr.With(rbac.Require("submission:submit")).
			Post("/api/submissions/{submissionID}/submit", api.SubmitHandler(store, events))

		// Recruiter flow
		pr.With(rbac.Require("fiche:create")).
			Post("/api/fiches", api.CreateFicheHandler(store))
		pr.With(rbac.Require("submission:invite")).
			Post("/api/submissions", api.CreateSubmissionHandler(store))
		pr.With(rbac.Require("submission:review")).
			Get("/api/submissions", api.ListSubmissionsHandler(store))
		pr.With(rbac.Require("submission:review")).
			Get("/api/submissions/{submissionID}/answers", api.GetAnswersHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
