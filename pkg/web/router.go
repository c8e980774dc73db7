package web

import "net/http"

// Router is a ServeMux with a fallback slot. Unmatched requests go to
// the fallback instead of the mux's default 404, which lets the
// dashboard serve its own not-found page.
type Router struct {
	mux      *http.ServeMux
	fallback http.HandlerFunc
}

// NewRouter returns an empty Router. Without a fallback it behaves
// exactly like a plain ServeMux.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// SetFallback installs the handler for requests no pattern matches.
func (r *Router) SetFallback(handler http.HandlerFunc) {
	r.fallback = handler
}

// Handle registers a handler for the given pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// HandleFunc registers a handler function for the given pattern.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.mux.HandleFunc(pattern, handler)
}

// ServeHTTP dispatches through the mux, diverting to the fallback when
// no registered pattern matches.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if _, pattern := r.mux.Handler(req); pattern == "" && r.fallback != nil {
		r.fallback.ServeHTTP(w, req)
		return
	}
	r.mux.ServeHTTP(w, req)
}
