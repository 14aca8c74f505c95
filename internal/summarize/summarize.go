// Package summarize turns exported transcripts into prose summaries
// through a hosted summarization model, and runs the directory-level
// batch that keeps the summary folder in sync with the export folder.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matheus3301/chatvault/internal/platform"
)

// Summarizer produces a prose summary of conversation text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// NoSummary is returned when the model answers with an empty result.
const NoSummary = "No summary available."

// HFClient calls a HuggingFace-style inference endpoint: POST
// {"inputs": text}, answer [{"summary_text": "..."}].
type HFClient struct {
	endpoint string
	token    string
	client   *http.Client

	attempts int
	backoff  time.Duration
}

// NewHFClient creates a summarization client for endpoint. token is
// sent as a Bearer credential and must not be empty.
func NewHFClient(endpoint, token string) *HFClient {
	return &HFClient{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 60 * time.Second},
		attempts: 3,
		backoff:  time.Second,
	}
}

type hfResult struct {
	SummaryText string `json:"summary_text"`
}

// Summarize sends text to the inference endpoint with bounded retry.
// A non-2xx answer counts as a failed attempt.
func (c *HFClient) Summarize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return "", err
	}

	var results []hfResult
	err = platform.Retry(ctx, c.attempts, c.backoff, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", platform.ErrSourceUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("%w: summarizer answered %s", platform.ErrSourceUnavailable, resp.Status)
		}
		results = nil
		return json.NewDecoder(resp.Body).Decode(&results)
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	if len(results) == 0 || results[0].SummaryText == "" {
		return NoSummary, nil
	}
	return results[0].SummaryText, nil
}
