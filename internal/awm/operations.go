package awm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/stages"
)

// CreateOperation starts a long-running platform operation and returns its
// identifier. The operation advances remotely; progress is observed through
// OperationStatus.
func (c *Client) CreateOperation(ctx context.Context, loanID, kind string, params map[string]any) (string, error) {
	body := struct {
		LoanID string         `json:"loan_id"`
		Kind   string         `json:"kind"`
		Params map[string]any `json:"params,omitempty"`
	}{LoanID: loanID, Kind: kind, Params: params}

	var resp struct {
		ID string `json:"id"`
	}

	if err := c.do(ctx, http.MethodPost, "/operations", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", pipeline.Permanentf("create %s operation: response missing operation id", kind)
	}

	c.logger.Info("operation created", "id", resp.ID, "loan_id", loanID, "kind", kind)
	return resp.ID, nil
}

// OperationStatus fetches the current snapshot of an operation, normalizing
// the platform's status string and decoding the terminal payload into the
// engine's per-kind convention.
func (c *Client) OperationStatus(ctx context.Context, id string) (*pipeline.Operation, error) {
	var resp struct {
		ID      string          `json:"id"`
		Kind    string          `json:"kind"`
		Status  string          `json:"status"`
		Payload json.RawMessage `json:"payload,omitempty"`
		Reason  string          `json:"reason,omitempty"`
	}

	path := "/operations/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	payload, err := decodePayload(resp.Kind, resp.Payload)
	if err != nil {
		return nil, err
	}

	return &pipeline.Operation{
		ID:      resp.ID,
		Kind:    resp.Kind,
		State:   normalizeState(resp.Status),
		Payload: payload,
		Reason:  resp.Reason,
	}, nil
}

// normalizeState maps AWM operation status strings onto the engine's
// lifecycle states. Unknown statuses are treated as still in progress; the
// poll budget bounds how long that optimism lasts.
func normalizeState(status string) pipeline.OperationState {
	switch strings.ToLower(status) {
	case "queued", "created", "pending":
		return pipeline.OperationPending
	case "running", "processing", "in_progress":
		return pipeline.OperationInProgress
	case "completed", "succeeded", "done":
		return pipeline.OperationCompleted
	case "failed", "error", "cancelled", "canceled":
		return pipeline.OperationFailed
	default:
		return pipeline.OperationInProgress
	}
}

// decodePayload converts a terminal payload into the value the consuming
// stage expects: audit items for audits, the package identifier for orders,
// the receipt for deliveries.
func decodePayload(kind string, raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch kind {
	case stages.OpAudit:
		var items []stages.AuditItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, pipeline.Wrap(pipeline.KindPermanent, err, "decode audit payload")
		}
		return items, nil
	case stages.OpOrder:
		var p struct {
			PackageID string `json:"package_id"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, pipeline.Wrap(pipeline.KindPermanent, err, "decode order payload")
		}
		return p.PackageID, nil
	case stages.OpDelivery:
		var p struct {
			Receipt string `json:"receipt"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, pipeline.Wrap(pipeline.KindPermanent, err, "decode delivery payload")
		}
		return p.Receipt, nil
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, pipeline.Wrap(pipeline.KindPermanent, err, "decode %s payload", kind)
		}
		return v, nil
	}
}
