package awm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/stages"
)

// ReadFields fetches current values for the given platform field IDs.
// Fields the platform has no value for come back as empty strings.
func (c *Client) ReadFields(ctx context.Context, loanID string, fieldIDs []string) (map[string]string, error) {
	body := struct {
		FieldIDs []string `json:"field_ids"`
	}{FieldIDs: fieldIDs}

	var resp struct {
		Fields map[string]string `json:"fields"`
	}

	path := "/loans/" + url.PathEscape(loanID) + "/field-reads"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Fields, nil
}

// WriteFields submits field updates keyed by platform field ID and returns
// the per-field outcome. Partial failure is normal: the platform applies
// each field independently.
func (c *Client) WriteFields(ctx context.Context, loanID string, updates map[string]string) (map[string]stages.WriteResult, error) {
	body := struct {
		Updates map[string]string `json:"updates"`
	}{Updates: updates}

	var resp struct {
		Results map[string]stages.WriteResult `json:"results"`
	}

	path := "/loans/" + url.PathEscape(loanID) + "/field-writes"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("field writes submitted",
		"loan_id", loanID,
		"fields", len(updates),
	)
	return resp.Results, nil
}
