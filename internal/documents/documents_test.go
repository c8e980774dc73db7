package documents_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/documents"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict},
		{"file too large", documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", documents.ErrInvalidFile, http.StatusBadRequest},
		{"missing loan id", documents.ErrMissingLoanID, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", documents.ErrNotFound), http.StatusNotFound},
		{"wrapped duplicate", fmt.Errorf("insert failed: %w", documents.ErrDuplicate), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documents.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"status":       {"uploaded"},
			"filename":     {"draw-request"},
			"loan_id":      {"LN-2024-001"},
			"content_type": {"application/pdf"},
			"storage_key":  {"loans/LN-2024-001"},
		}

		f := documents.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "uploaded" {
			t.Errorf("Status = %v, want uploaded", f.Status)
		}
		if f.Filename == nil || *f.Filename != "draw-request" {
			t.Errorf("Filename = %v, want draw-request", f.Filename)
		}
		if f.LoanID == nil || *f.LoanID != "LN-2024-001" {
			t.Errorf("LoanID = %v, want LN-2024-001", f.LoanID)
		}
		if f.ContentType == nil || *f.ContentType != "application/pdf" {
			t.Errorf("ContentType = %v, want application/pdf", f.ContentType)
		}
		if f.StorageKey == nil || *f.StorageKey != "loans/LN-2024-001" {
			t.Errorf("StorageKey = %v, want loans/LN-2024-001", f.StorageKey)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})

		if f.Status != nil {
			t.Errorf("Status = %v, want nil", f.Status)
		}
		if f.Filename != nil {
			t.Errorf("Filename = %v, want nil", f.Filename)
		}
		if f.LoanID != nil {
			t.Errorf("LoanID = %v, want nil", f.LoanID)
		}
		if f.ContentType != nil {
			t.Errorf("ContentType = %v, want nil", f.ContentType)
		}
		if f.StorageKey != nil {
			t.Errorf("StorageKey = %v, want nil", f.StorageKey)
		}
	})

	t.Run("partial params", func(t *testing.T) {
		values := url.Values{
			"status":  {"in_review"},
			"loan_id": {"LN-2024-007"},
		}

		f := documents.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "in_review" {
			t.Errorf("Status = %v, want in_review", f.Status)
		}
		if f.LoanID == nil || *f.LoanID != "LN-2024-007" {
			t.Errorf("LoanID = %v, want LN-2024-007", f.LoanID)
		}
		if f.Filename != nil {
			t.Errorf("Filename = %v, want nil", f.Filename)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "documents", "d").
		Project("status", "Status").
		Project("filename", "Filename").
		Project("loan_id", "LoanID").
		Project("content_type", "ContentType").
		Project("storage_key", "StorageKey")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{}
		f.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT d.status, d.filename, d.loan_id, d.content_type, d.storage_key FROM public.documents d"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("status equals filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{Status: ptr("uploaded")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*string); !ok || *v != "uploaded" {
			t.Errorf("args[0] = %v, want *uploaded", args[0])
		}
	})

	t.Run("filename contains filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{Filename: ptr("draw")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 || args[0] != "%draw%" {
			t.Errorf("args = %v, want [%%draw%%]", args)
		}
	})

	t.Run("storage key contains filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{StorageKey: ptr("loans/LN-2024-001")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 || args[0] != "%loans/LN-2024-001%" {
			t.Errorf("args = %v, want [%%loans/LN-2024-001%%]", args)
		}
	})

	t.Run("loan_id equals filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{LoanID: ptr("LN-2024-001")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*string); !ok || *v != "LN-2024-001" {
			t.Errorf("args[0] = %v, want *LN-2024-001", args[0])
		}
	})

	t.Run("content_type equals filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{ContentType: ptr("application/pdf")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*string); !ok || *v != "application/pdf" {
			t.Errorf("args[0] = %v, want *application/pdf", args[0])
		}
	})

	t.Run("multiple filters combine with AND", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{
			Status:   ptr("uploaded"),
			Filename: ptr("draw"),
			LoanID:   ptr("LN-2024-001"),
		}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}
