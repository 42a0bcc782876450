// Package retrieval talks to the document-retrieval assistant backend.
package retrieval

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

type Client interface {
	// StartServer asks the retrieval backend to warm up. Idempotent and
	// best-effort; failures are reported but not fatal.
	StartServer(ctx context.Context) error
	Query(ctx context.Context, question string) (*QueryResult, error)
}

type QueryResult struct {
	Success bool           `json:"success"`
	Answer  string         `json:"answer"`
	Sources []model.Source `json:"-"`
	Error   string         `json:"error,omitempty"`
}

type Config struct {
	URL     string
	Timeout time.Duration
}

type HTTPClient struct {
	url    string
	client *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) StartServer(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/start", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Backend(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// rawResult mirrors the wire shape. Sources arrive as a mixed array of
// plain labels and {title, url} objects.
type rawResult struct {
	Success bool              `json:"success"`
	Answer  string            `json:"answer"`
	Sources []json.RawMessage `json:"sources"`
	Error   string            `json:"error"`
}

func (c *HTTPClient) Query(ctx context.Context, question string) (*QueryResult, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Backend(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Backend(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Backend(fmt.Errorf("retrieval backend returned status %d", resp.StatusCode))
	}

	var raw rawResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Backend(fmt.Errorf("failed to decode retrieval response: %w", err))
	}

	result := &QueryResult{
		Success: raw.Success,
		Answer:  raw.Answer,
		Error:   raw.Error,
		Sources: decodeSources(raw.Sources),
	}
	return result, nil
}

// decodeSources keeps the backend's source ordering while accepting both
// plain-label and label+link entries.
func decodeSources(raw []json.RawMessage) []model.Source {
	sources := make([]model.Source, 0, len(raw))
	for _, r := range raw {
		var label string
		if err := json.Unmarshal(r, &label); err == nil {
			sources = append(sources, model.Source{Title: label})
			continue
		}
		var linked model.Source
		if err := json.Unmarshal(r, &linked); err == nil && linked.Title != "" {
			sources = append(sources, linked)
		}
	}
	return sources
}
