// Package scalar mounts the Scalar API reference UI against the
// served OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/module"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/web"
)

//go:embed index.html
var pageFS embed.FS

//go:embed assets
var assetsFS embed.FS

// NewModule serves the reference UI at basePath. The page template
// needs basePath to build asset URLs that survive prefix mounting.
func NewModule(basePath string) *module.Module {
	return module.New(basePath, buildRouter(basePath))
}

func buildRouter(basePath string) http.Handler {
	mux := http.NewServeMux()

	page := template.Must(template.ParseFS(pageFS, "index.html"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page.Execute(w, map[string]string{"BasePath": basePath})
	})

	// Asset URLs are flat under the module root, so the embedded
	// assets directory maps straight onto it.
	mux.Handle("GET /", web.DistServer(assetsFS, "assets", ""))

	return mux
}
