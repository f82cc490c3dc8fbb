package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/recrutech/recrutech-screening/internal/fiche"
)

// Client talks to a remote screening backend over its REST API and satisfies
// the four runner service interfaces, so a Runner can drive either a local
// store or a deployed gateway.
type Client struct {
	base  string
	token string
	http  *http.Client
}

type ClientConfig struct {
	BaseURL string
	Token   string // candidate bearer token
	Timeout time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	t := cfg.Timeout
	if t <= 0 {
		t = 15 * time.Second
	}
	return &Client{
		base:  strings.TrimSuffix(cfg.BaseURL, "/"),
		token: cfg.Token,
		http:  &http.Client{Timeout: t},
	}
}

func (c *Client) GetSubmission(ctx context.Context, id string) (fiche.Submission, error) {
	var sub fiche.Submission
	err := c.do(ctx, http.MethodGet, "/api/submissions/"+id, nil, &sub)
	return sub, err
}

func (c *Client) GetFiche(ctx context.Context, id string) (fiche.Fiche, error) {
	var f fiche.Fiche
	err := c.do(ctx, http.MethodGet, "/api/fiches/"+id, nil, &f)
	return f, err
}

func (c *Client) SaveAnswer(ctx context.Context, submissionID string, rec fiche.AnswerRecord) error {
	return c.do(ctx, http.MethodPost, "/api/submissions/"+submissionID+"/answers", rec, nil)
}

func (c *Client) Submit(ctx context.Context, submissionID string) error {
	return c.do(ctx, http.MethodPost, "/api/submissions/"+submissionID+"/submit", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		if res.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s %s: %w", method, path, fiche.ErrNotFound)
		}
		if res.StatusCode == http.StatusConflict {
			return fmt.Errorf("%s %s: %w", method, path, fiche.ErrAlreadySubmitted)
		}
		return fmt.Errorf("%s %s: %s", method, path, res.Status)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
