package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	AuthSecret string // HMAC for candidate/recruiter JWTs

	RecruiterUser     string
	RecruiterPassHash string // bcrypt

	CORSOrigins []string

	FicheSeedDir string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:   addr,
		PublicURL:  os.Getenv("PUBLIC_URL"),
		DBDriver:   envOr("DB_DRIVER", "sqlite"),
		DBDSN:      envOr("DB_DSN", ""),
		AuthSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),

		RecruiterUser: envOr("RECRUITER_USER", "recruteur"),
		// default: bcrypt("password"), dev only
		RecruiterPassHash: envOr("RECRUITER_PASS_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:4200"),

		FicheSeedDir: envOr("FICHE_SEED_DIR", ""),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
