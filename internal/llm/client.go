// Package llm talks to the tool-oriented assistant backend. The backend's
// reply shape is loose: a JSON object with optional tool/parameters/
// response/message fields, or a bare string that may itself be JSON. The
// raw bytes are returned untouched; envelope parsing happens in the
// assistant package.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/pkg/circuitbreaker"
	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

// ContextBundle is the record context sent with every tool-mode message.
// Inventory is intentionally excluded from the bundle.
type ContextBundle struct {
	Patients     []*model.Patient     `json:"patients"`
	Appointments []*model.Appointment `json:"appointments"`
	Deadlines    []*model.Deadline    `json:"deadlines"`
}

type Client interface {
	Chat(ctx context.Context, message string, history []model.ChatMessage, bundle ContextBundle) (json.RawMessage, error)
}

type Config struct {
	URL     string
	Timeout time.Duration
}

type HTTPClient struct {
	url    string
	client *http.Client
	cb     *circuitbreaker.CircuitBreaker
}

func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &HTTPClient{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "llm-backend",
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
		}),
	}
}

type chatRequest struct {
	Message string              `json:"message"`
	History []model.ChatMessage `json:"history"`
	Context ContextBundle       `json:"context"`
}

func (c *HTTPClient) Chat(ctx context.Context, message string, history []model.ChatMessage, bundle ContextBundle) (json.RawMessage, error) {
	if history == nil {
		history = []model.ChatMessage{}
	}

	body, err := json.Marshal(chatRequest{
		Message: message,
		History: history,
		Context: bundle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	var raw json.RawMessage
	err = c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/chat", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("assistant backend returned status %d", resp.StatusCode)
		}

		raw = data
		return nil
	})
	if err != nil {
		return nil, errors.Backend(err)
	}
	return raw, nil
}
