// Package audio saves voice recordings and turns them into text through
// the transcription backend.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

// minAudioBytes rejects recordings too short to contain speech.
const minAudioBytes = 1024

type Service interface {
	SaveAudio(data []byte) (string, error)
	TranscribeAudio(ctx context.Context, path string) (string, error)
}

type Config struct {
	Dir     string
	URL     string
	Timeout time.Duration
}

type HTTPService struct {
	dir    string
	url    string
	client *http.Client
}

func NewHTTPService(cfg Config) *HTTPService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPService{
		dir:    cfg.Dir,
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPService) SaveAudio(data []byte) (string, error) {
	if len(data) < minAudioBytes {
		return "", errors.Transcription("recording too short to transcribe", nil)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio dir: %w", err)
	}

	path := filepath.Join(s.dir, uuid.New().String()+".webm")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save audio: %w", err)
	}
	return path, nil
}

// transcribeResult covers every reply shape the backend is known to
// produce: a bare string, {text}, {success, transcription}, or {error}.
type transcribeResult struct {
	Text          string `json:"text"`
	Transcription string `json:"transcription"`
	Success       *bool  `json:"success"`
	Error         string `json:"error"`
}

func (s *HTTPService) TranscribeAudio(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Transcription("failed to read audio file", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/transcribe", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Transcription("transcription backend unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Transcription("failed to read transcription response", err)
	}

	return decodeTranscription(body)
}

func decodeTranscription(body []byte) (string, error) {
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		if plain == "" {
			return "", errors.Transcription("empty transcription", nil)
		}
		return plain, nil
	}

	var result transcribeResult
	if err := json.Unmarshal(body, &result); err != nil {
		// Not JSON at all; treat the raw body as the transcript.
		text := string(bytes.TrimSpace(body))
		if text == "" {
			return "", errors.Transcription("empty transcription", nil)
		}
		return text, nil
	}

	if result.Error != "" {
		return "", errors.Transcription(result.Error, nil)
	}
	if result.Success != nil && !*result.Success {
		return "", errors.Transcription("transcription failed", nil)
	}
	if result.Transcription != "" {
		return result.Transcription, nil
	}
	if result.Text != "" {
		return result.Text, nil
	}
	return "", errors.Transcription("empty transcription", nil)
}
