package documents

import (
	"net/url"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/query"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("loan_id", "LoanID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters narrows document queries. Nil fields are ignored. Status,
// LoanID, and ContentType match exactly; Filename and StorageKey match
// case-insensitive substrings.
type Filters struct {
	Status      *string `json:"status,omitempty"`
	Filename    *string `json:"filename,omitempty"`
	LoanID      *string `json:"loan_id,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
	StorageKey  *string `json:"storage_key,omitempty"`
}

// Apply adds the filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("LoanID", f.LoanID).
		WhereEquals("ContentType", f.ContentType).
		WhereContains("StorageKey", f.StorageKey)
}

// FiltersFromQuery reads the filter fields from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		Status:      optional(values, "status"),
		Filename:    optional(values, "filename"),
		LoanID:      optional(values, "loan_id"),
		ContentType: optional(values, "content_type"),
		StorageKey:  optional(values, "storage_key"),
	}
}

func optional(values url.Values, key string) *string {
	if v := values.Get(key); v != "" {
		return &v
	}
	return nil
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.LoanID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Status,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}
