package awm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/stages"
)

// RunCheck runs the platform compliance scan for a loan and returns its
// normalized findings.
func (c *Client) RunCheck(ctx context.Context, loanID string) ([]pipeline.Finding, error) {
	var resp struct {
		Findings []pipeline.Finding `json:"findings"`
	}

	path := "/loans/" + url.PathEscape(loanID) + "/compliance-checks"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Findings, nil
}

// QMFlags reads the loan's qualified-mortgage flags.
func (c *Client) QMFlags(ctx context.Context, loanID string) ([]stages.QMFlag, error) {
	var resp struct {
		Flags []stages.QMFlag `json:"flags"`
	}

	path := "/loans/" + url.PathEscape(loanID) + "/qm-flags"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Flags, nil
}
