package api

import (
	"net/http"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/openapi"
)

func triggerMode() *openapi.Schema {
	s := openapi.EnumString("apply", "dry-run")
	s.Description = "Required run mode; there is no default"
	return s
}

// buildSpec describes the API surface served under the module base path.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Run": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"loan_id":    {Type: "string"},
				"mode":       openapi.EnumString("apply", "dry-run"),
				"status":     openapi.EnumString("running", "success", "failed", "blocked"),
				"summary":    {Type: "string"},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"StageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":      {Type: "string"},
				"status":     openapi.EnumString("success", "failed", "skipped", "blocked"),
				"attempts":   {Type: "integer"},
				"elapsed_ms": {Type: "integer"},
				"output":     {Type: "object", Description: "Stage-specific structured output"},
				"error":      {Type: "string"},
				"error_kind": openapi.EnumString("precondition", "transient", "permanent", "poll_timeout"),
			},
		},
		"BlockingIssue": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"severity": {Type: "string"},
				"source":   {Type: "string"},
				"code":     {Type: "string"},
				"message":  {Type: "string"},
			},
		},
		"RunDetail": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"loan_id":    {Type: "string"},
				"mode":       {Type: "string"},
				"status":     {Type: "string"},
				"summary":    {Type: "string"},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
				"stages":     openapi.ArrayRef("StageResult"),
				"issues":     openapi.ArrayRef("BlockingIssue"),
				"advisories": openapi.ArrayRef("BlockingIssue"),
			},
		},
		"TriggerRequest": {
			Type:     "object",
			Required: []string{"loan_id", "mode"},
			Properties: map[string]*openapi.Schema{
				"loan_id":      {Type: "string", Description: "Loan to run the pipeline for"},
				"mode":         triggerMode(),
				"retry_budget": {Type: "integer", Description: "Optional cap on per-stage retries"},
				"stage_filter": {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Optional subset of stages to execute"},
			},
		},
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"loan_id":      {Type: "string"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer"},
				"page_count":   {Type: "integer"},
				"storage_key":  {Type: "string"},
				"status":       {Type: "string"},
				"uploaded_at":  {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
	})

	spec.Paths["/runs"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List runs",
			Tags:    []string{"runs"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Search loan IDs and summaries", false),
				openapi.QueryParam("loan_id", "string", "Filter by loan", false),
				openapi.QueryParam("mode", "string", "Filter by run mode", false),
				openapi.QueryParam("status", "string", "Filter by terminal status", false),
				openapi.QueryParam("created_from", "string", "Runs created at or after this RFC 3339 timestamp", false),
				openapi.QueryParam("created_to", "string", "Runs created at or before this RFC 3339 timestamp", false),
			},
			Responses: map[int]*openapi.Response{
				http.StatusOK: openapi.ResponseJSON("Paginated runs", "Run"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Trigger a pipeline run",
			Description: "Executes the pipeline synchronously and returns the terminal run. Mode is required.",
			Tags:        []string{"runs"},
			RequestBody: openapi.RequestBodyJSON("TriggerRequest", true),
			Responses: map[int]*openapi.Response{
				http.StatusCreated:    openapi.ResponseJSON("Terminal run", "RunDetail"),
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/runs/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search runs",
			Tags:        []string{"runs"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				http.StatusOK: openapi.ResponseJSON("Paginated runs", "Run"),
			},
		},
	}

	spec.Paths["/runs/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a run with stage results and issues",
			Tags:       []string{"runs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Run identifier")},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       openapi.ResponseJSON("Run detail", "RunDetail"),
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/documents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List documents",
			Tags:    []string{"documents"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("loan_id", "string", "Filter by loan", false),
				openapi.QueryParam("status", "string", "Filter by status", false),
			},
			Responses: map[int]*openapi.Response{
				http.StatusOK: openapi.ResponseJSON("Paginated documents", "Document"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload a document",
			Description: "Multipart form upload with fields loan_id and file.",
			Tags:        []string{"documents"},
			Responses: map[int]*openapi.Response{
				http.StatusCreated:    openapi.ResponseJSON("Registered document", "Document"),
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/documents/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search documents",
			Tags:        []string{"documents"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				http.StatusOK: openapi.ResponseJSON("Paginated documents", "Document"),
			},
		},
	}

	spec.Paths["/documents/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a document",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document identifier")},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       openapi.ResponseJSON("Document", "Document"),
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a document and its stored content",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document identifier")},
			Responses: map[int]*openapi.Response{
				http.StatusNoContent: {Description: "Deleted"},
				http.StatusNotFound:  openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/documents/{id}/content"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download document content",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document identifier")},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       {Description: "File bytes"},
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/storage"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List stored blobs",
			Tags:    []string{"storage"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker", false),
				openapi.QueryParam("max_results", "integer", "Page size cap", false),
			},
			Responses: map[int]*openapi.Response{
				http.StatusOK: {Description: "Blob listing"},
			},
		},
	}

	keyParam := &openapi.Parameter{
		Name:        "key",
		In:          "path",
		Required:    true,
		Description: "Blob key, may contain slashes",
		Schema:      &openapi.Schema{Type: "string"},
	}

	spec.Paths["/storage/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get blob metadata",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{keyParam},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       {Description: "Blob metadata"},
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/storage/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download blob content",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{keyParam},
			Responses: map[int]*openapi.Response{
				http.StatusOK:       {Description: "Blob bytes"},
				http.StatusNotFound: openapi.ResponseRef("NotFound"),
			},
		},
	}

	return spec
}
