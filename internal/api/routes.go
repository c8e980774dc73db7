package api

import (
	"net/http"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/openapi"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
	specJSON []byte,
) {
	routes.Register(
		mux,
		domain.Runs.Handler().Routes(),
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger, cfg.Storage.MaxListSize).routes(),
	)

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specJSON))
}
