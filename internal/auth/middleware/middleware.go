package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/recrutech/recrutech-screening/internal/fiche"
	"github.com/recrutech/recrutech-screening/internal/rbac"
)

type AuthService struct{ hmac []byte }

func NewAuthService(secret string) *AuthService { return &AuthService{hmac: []byte(secret)} }

type Claims struct {
	Sub          string `json:"sub"`
	Role         string `json:"role"`                    // "recruiter" or "candidate"
	SubmissionID string `json:"submission_id,omitempty"` // candidate tokens are scoped to one submission
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, role, submissionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:          sub,
		Role:         role,
		SubmissionID: submissionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "recrutech-screening",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// POST /auth/login  { "username": "...", "password": "..." }
// Recruiter login against the configured bcrypt hash.
func LoginHandler(a *AuthService, recruiterUser, recruiterPassHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Username != recruiterUser ||
			bcrypt.CompareHashAndPassword([]byte(recruiterPassHash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(req.Username, "recruiter", "")
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

// POST /auth/candidate-token  { "submission_id": "...", "candidate": "..." }
// Exchanges a submission invite for a candidate token scoped to it.
func CandidateTokenHandler(a *AuthService, store fiche.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SubmissionID string `json:"submission_id"`
			Candidate    string `json:"candidate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.SubmissionID == "" {
			http.Error(w, "submission_id required", http.StatusBadRequest)
			return
		}
		sub, err := store.GetSubmission(r.Context(), req.SubmissionID)
		if err != nil {
			http.Error(w, "unknown submission", http.StatusUnauthorized)
			return
		}
		if sub.Candidate != "" && !strings.EqualFold(sub.Candidate, req.Candidate) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(req.Candidate, "candidate", sub.ID)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

// JWTMiddleware authenticates the bearer token and attaches subject, role
// and (for candidates) the submission scope to the request context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := WithSubject(r.Context(), c.Sub)
			ctx = rbac.WithRole(ctx, c.Role)
			if c.SubmissionID != "" {
				ctx = WithSubmission(ctx, c.SubmissionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type ctxKey string

const (
	ctxKeySub        ctxKey = "sub"
	ctxKeySubmission ctxKey = "submission"
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySub); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func WithSubmission(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySubmission, id)
}

// SubmissionFromContext returns the submission a candidate token is scoped
// to, or "" for recruiter tokens.
func SubmissionFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySubmission); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
