// Package module mounts self-contained HTTP surfaces under single-level
// path prefixes, each with its own router and middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/middleware"
)

// Module pairs a path prefix with an inner router and a middleware
// stack. Requests reach the router with the prefix already stripped, so
// inner routes are written prefix-free.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module under a single-level prefix such as "/api".
// Prefixes are wired at startup, so a malformed one panics instead of
// returning an error nobody checks.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Handler returns the inner router wrapped in the middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Serve dispatches one request into the module. The original request is
// left untouched; the inner router sees a clone with the prefix removed.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	inner := stripPrefix(req.URL.Path, m.prefix)
	m.Handler().ServeHTTP(w, cloneWithPath(req, inner))
}

func stripPrefix(fullPath, prefix string) string {
	rest := fullPath[len(prefix):]
	if rest == "" {
		return "/"
	}
	return rest
}

func cloneWithPath(req *http.Request, path string) *http.Request {
	clone := new(http.Request)
	*clone = *req
	clone.URL = new(url.URL)
	*clone.URL = *req.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""
	return clone
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
