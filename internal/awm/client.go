// Package awm is the HTTP client for the AWM loan platform. It implements
// the pipeline's field, compliance, and operation provider contracts and
// classifies transport failures for the stage executor: network faults and
// 5xx responses are transient, 4xx responses are permanent.
package awm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// Client talks to the AWM REST API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	logger  *slog.Logger
}

// New creates a Client from upstream connection settings.
func New(cfg config.ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger.With("system", "awm"),
	}
}

// do issues one JSON request and decodes the response into out when out is
// non-nil. Returned errors are classified stage errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return pipeline.Wrap(pipeline.KindPermanent, err, "encode %s %s request", method, path)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pipeline.Wrap(pipeline.KindPermanent, err, "build %s %s request", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pipeline.Wrap(pipeline.KindTransient, err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return responseError(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pipeline.Wrap(pipeline.KindPermanent, err, "decode %s %s response", method, path)
	}
	return nil
}

func responseError(method, path string, resp *http.Response) error {
	detail := errorDetail(resp.Body)
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return pipeline.Transientf("%s %s: %s%s", method, path, resp.Status, detail)
	}
	return pipeline.Permanentf("%s %s: %s%s", method, path, resp.Status, detail)
}

// errorDetail pulls the error message out of an AWM error body, tolerating
// non-JSON responses.
func errorDetail(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil || payload.Error == "" {
		return ""
	}
	return ": " + payload.Error
}
