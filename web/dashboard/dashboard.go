// Package dashboard serves a server-rendered view of recent pipeline runs.
package dashboard

import (
	"embed"
	"net/http"
	"strconv"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/runs"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/module"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/pagination"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/web"
)

//go:embed layouts/*.html views/*.html
var templateFS embed.FS

//go:embed dashboard.css
var styles []byte

var runsView = web.ViewDef{
	Route:    "/",
	Template: "runs.html",
	Title:    "Pipeline Runs",
}

var notFoundView = web.ViewDef{
	Template: "notfound.html",
	Title:    "Not Found",
}

// runsPage is the view model for the run history page. The active filter
// values ride along so the form can echo them back.
type runsPage struct {
	Result *pagination.PageResult[runs.Run]
	Loan   string
	Status string
}

// NewModule creates the dashboard module rendering run history at basePath.
func NewModule(basePath string, sys runs.System) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS, templateFS,
		"layouts/*.html", "views",
		basePath,
		[]web.ViewDef{runsView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	router := web.NewRouter()
	router.HandleFunc("GET /{$}", ts.DataHandler("base", runsView, loadRuns(sys)))
	router.HandleFunc("GET /dashboard.css", web.ServeEmbeddedFile(styles, "text/css"))
	router.SetFallback(ts.ErrorHandler("base", notFoundView, http.StatusNotFound))

	return module.New(basePath, router), nil
}

func loadRuns(sys runs.System) func(r *http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
		page := pagination.PageRequest{Page: pageNum, PageSize: 25}

		var filters runs.Filters
		loan := r.URL.Query().Get("loan_id")
		if loan != "" {
			filters.LoanID = &loan
		}
		status := r.URL.Query().Get("status")
		if status != "" {
			filters.Status = &status
		}

		result, err := sys.List(r.Context(), page, filters)
		if err != nil {
			return nil, err
		}

		return runsPage{
			Result: result,
			Loan:   loan,
			Status: status,
		}, nil
	}
}
