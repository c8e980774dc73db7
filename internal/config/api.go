package config

import (
	"fmt"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/formatting"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/middleware"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/openapi"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "DRAWDOC_CORS_ENABLED",
	Origins:          "DRAWDOC_CORS_ORIGINS",
	AllowedMethods:   "DRAWDOC_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "DRAWDOC_CORS_ALLOWED_HEADERS",
	AllowCredentials: "DRAWDOC_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "DRAWDOC_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "DRAWDOC_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "DRAWDOC_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "DRAWDOC_OPENAPI_TITLE",
	Description: "DRAWDOC_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns the parsed upload limit. An unparseable
// value falls back to 50MB rather than failing the request path.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults and environment overrides, then finalizes
// the nested CORS, pagination, and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge copies the overlay's non-zero fields over this config, then
// recurses into the nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	envOverride("DRAWDOC_API_BASE_PATH", &c.BasePath)
	envOverride("DRAWDOC_API_MAX_UPLOAD_SIZE", &c.MaxUploadSize)
}
