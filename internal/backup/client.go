// Package backup triggers the external backup collaborator.
package backup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

type Client interface {
	BackupData(ctx context.Context) error
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
		timeout = 5 * time.Minute
	}
	return &HTTPClient{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) BackupData(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/backup", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Backend(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Backend(err)
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return errors.Backend(fmt.Errorf("failed to decode backup response: %w", err))
	}
	if !result.Success {
		if result.Error == "" {
			result.Error = "backup failed"
		}
		return errors.Backend(fmt.Errorf("%s", result.Error))
	}
	return nil
}
