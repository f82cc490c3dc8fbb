package fiche

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

type seedScale struct {
	Min    int               `yaml:"min"`
	Max    int               `yaml:"max"`
	Labels map[string]string `yaml:"labels"`
}

type seedOption struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type seedQuestion struct {
	ID           string       `yaml:"id"`
	Label        string       `yaml:"label"`
	Type         string       `yaml:"type"`
	Required     bool         `yaml:"required"`
	TimeLimitSec int          `yaml:"time_limit_sec"`
	Options      []seedOption `yaml:"options"`
	Items        []seedOption `yaml:"items"`
	Scale        *seedScale   `yaml:"scale"`
}

type seedFiche struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Questions   []seedQuestion `yaml:"questions"`
}

// LoadSeedDir reads every *.yml / *.yaml fiche definition in dir and upserts
// it into the store. Returns the number of fiches loaded. A missing dir is
// not an error; a malformed file is.
func LoadSeedDir(ctx context.Context, dir string, store Store) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		buf, err := os.ReadFile(path)
		if err != nil {
			return n, err
		}
		var sf seedFiche
		if err := yaml.Unmarshal(buf, &sf); err != nil {
			return n, fmt.Errorf("seed %s: %w", e.Name(), err)
		}
		if _, err := store.PutFiche(ctx, sf.toFiche()); err != nil {
			return n, fmt.Errorf("seed %s: %w", e.Name(), err)
		}
		n++
	}
	return n, nil
}

func (sf seedFiche) toFiche() Fiche {
	f := Fiche{ID: sf.ID, Title: sf.Title, Description: sf.Description}
	for _, sq := range sf.Questions {
		q := Question{
			ID:           sq.ID,
			Label:        sq.Label,
			Type:         QuestionType(sq.Type),
			Required:     sq.Required,
			TimeLimitSec: sq.TimeLimitSec,
		}
		for _, o := range sq.Options {
			q.Options = append(q.Options, Option{ID: o.ID, Label: o.Label})
		}
		for _, it := range sq.Items {
			q.Items = append(q.Items, ScaleItem{ID: it.ID, Label: it.Label})
		}
		if sq.Scale != nil {
			q.Scale = &Scale{Min: sq.Scale.Min, Max: sq.Scale.Max, Labels: sq.Scale.Labels}
		}
		f.Questions = append(f.Questions, q)
	}
	return f
}
