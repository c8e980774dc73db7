package main

import (
	"encoding/json"
	"net/http"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/api"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/infrastructure"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/middleware"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/module"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/web/dashboard"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/web/scalar"
)

type Modules struct {
	API       *module.Module
	Scalar    *module.Module
	Dashboard *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, domain, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	scalarModule := scalar.NewModule("/scalar")
	scalarModule.Use(middleware.Logger(infra.Logger))

	dashboardModule, err := dashboard.NewModule("/dashboard", domain.Runs)
	if err != nil {
		return nil, err
	}
	dashboardModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:       apiModule,
		Scalar:    scalarModule,
		Dashboard: dashboardModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Scalar)
	router.Mount(m.Dashboard)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
