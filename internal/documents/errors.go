package documents

import (
	"errors"
	"net/http"
)

// Domain errors callers match with errors.Is.
var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidFile   = errors.New("invalid file")
	ErrMissingLoanID = errors.New("loan_id is required")
)

// MapHTTPStatus translates a document error into its response status.
// Unknown errors map to 500.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrMissingLoanID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
