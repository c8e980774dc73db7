package ocr_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/ocr"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/stages"
)

func newClient(baseURL string) *ocr.Client {
	return ocr.New(
		config.ClientConfig{BaseURL: baseURL, Token: "test-token", Timeout: "5s"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func sampleDoc() stages.Document {
	return stages.Document{
		ID:       uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Filename: "note.pdf",
		Pages:    3,
		Size:     2048,
	}
}

func TestExtract(t *testing.T) {
	doc := sampleDoc()
	content := []byte("%PDF-1.7 note body")

	t.Run("submits multipart document and returns fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if r.URL.Path != "/extract" {
				t.Errorf("path = %s, want /extract", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("authorization = %q, want Bearer test-token", got)
			}

			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse multipart: %v", err)
			}
			if got := r.FormValue("document_id"); got != doc.ID.String() {
				t.Errorf("document_id = %q, want %s", got, doc.ID)
			}

			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("form file: %v", err)
			}
			defer file.Close()

			if header.Filename != "note.pdf" {
				t.Errorf("filename = %q, want note.pdf", header.Filename)
			}
			data, _ := io.ReadAll(file)
			if string(data) != string(content) {
				t.Errorf("file content = %q, want %q", data, content)
			}

			json.NewEncoder(w).Encode(map[string]any{
				"fields": map[string]string{
					"borrower_name": "Jane Smith",
					"loan_amount":   "$251,000",
				},
			})
		}))
		defer srv.Close()

		fields, err := newClient(srv.URL).Extract(context.Background(), doc, content)
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if fields["borrower_name"] != "Jane Smith" {
			t.Errorf("borrower_name = %q, want Jane Smith", fields["borrower_name"])
		}
		if fields["loan_amount"] != "$251,000" {
			t.Errorf("loan_amount = %q, want $251,000", fields["loan_amount"])
		}
	})

	t.Run("unrecognized document yields empty fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"fields": map[string]string{}})
		}))
		defer srv.Close()

		fields, err := newClient(srv.URL).Extract(context.Background(), doc, content)
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if len(fields) != 0 {
			t.Errorf("fields = %v, want empty", fields)
		}
	})
}

func TestExtractErrorClassification(t *testing.T) {
	doc := sampleDoc()

	tests := []struct {
		name   string
		status int
		want   pipeline.Kind
	}{
		{"server error is transient", http.StatusInternalServerError, pipeline.KindTransient},
		{"rate limit is transient", http.StatusTooManyRequests, pipeline.KindTransient},
		{"unprocessable is permanent", http.StatusUnprocessableEntity, pipeline.KindPermanent},
		{"bad request is permanent", http.StatusBadRequest, pipeline.KindPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"error": "unsupported format"})
			}))
			defer srv.Close()

			_, err := newClient(srv.URL).Extract(context.Background(), doc, []byte("content"))
			if err == nil {
				t.Fatal("expected error")
			}
			if kind := pipeline.KindOf(err); kind != tt.want {
				t.Errorf("kind = %q, want %q", kind, tt.want)
			}
			if !strings.Contains(err.Error(), "note.pdf") {
				t.Errorf("error = %q, want filename included", err)
			}
			if !strings.Contains(err.Error(), "unsupported format") {
				t.Errorf("error = %q, want body detail included", err)
			}
		})
	}

	t.Run("network failure is transient", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newClient(srv.URL).Extract(context.Background(), doc, []byte("content"))
		if err == nil {
			t.Fatal("expected error for closed server")
		}
		if kind := pipeline.KindOf(err); kind != pipeline.KindTransient {
			t.Errorf("kind = %q, want transient", kind)
		}
	})

	t.Run("malformed response is permanent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		_, err := newClient(srv.URL).Extract(context.Background(), doc, []byte("content"))
		if err == nil {
			t.Fatal("expected error for malformed response")
		}
		if kind := pipeline.KindOf(err); kind != pipeline.KindPermanent {
			t.Errorf("kind = %q, want permanent", kind)
		}
	})
}
