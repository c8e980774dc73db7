// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/infrastructure"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/middleware"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/module"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
// The assembled Domain is returned alongside the module so other surfaces,
// like the dashboard, can share the same systems.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, nil, err
	}

	specJSON, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime, specJSON)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, domain, nil
}
