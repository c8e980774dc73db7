// Package ocr is the HTTP client for the document extraction service. It
// implements the pipeline's extractor contract: one document in, structured
// field values out.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/stages"
)

// Client talks to the extraction service REST API.
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
		logger:  logger.With("system", "ocr"),
	}
}

// Extract submits one document for field extraction and returns the
// recognized values keyed by pipeline field identifier. Fields the service
// does not recognize in the document are simply absent.
func (c *Client) Extract(ctx context.Context, doc stages.Document, content []byte) (map[string]string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", doc.Filename)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindPermanent, err, "build extract request for %s", doc.Filename)
	}
	if _, err := part.Write(content); err != nil {
		return nil, pipeline.Wrap(pipeline.KindPermanent, err, "build extract request for %s", doc.Filename)
	}
	if err := form.WriteField("document_id", doc.ID.String()); err != nil {
		return nil, pipeline.Wrap(pipeline.KindPermanent, err, "build extract request for %s", doc.Filename)
	}
	if err := form.Close(); err != nil {
		return nil, pipeline.Wrap(pipeline.KindPermanent, err, "build extract request for %s", doc.Filename)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &buf)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindPermanent, err, "build extract request for %s", doc.Filename)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindTransient, err, "extract %s", doc.Filename)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, responseError(doc.Filename, resp)
	}

	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pipeline.Wrap(pipeline.KindPermanent, err, "decode extract response for %s", doc.Filename)
	}

	c.logger.Debug("document extracted",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"fields", len(payload.Fields),
	)
	return payload.Fields, nil
}

func responseError(filename string, resp *http.Response) error {
	detail := errorDetail(resp.Body)
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return pipeline.Transientf("extract %s: %s%s", filename, resp.Status, detail)
	}
	return pipeline.Permanentf("extract %s: %s%s", filename, resp.Status, detail)
}

func errorDetail(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil || payload.Error == "" {
		return ""
	}
	return ": " + payload.Error
}
