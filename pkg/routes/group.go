package routes

import "net/http"

// Group collects the routes of one resource under a shared prefix.
// Children nest, concatenating prefixes.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register walks the groups and registers each route on the mux using
// method-qualified patterns.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		registerGroup(mux, "", g)
	}
}

func registerGroup(mux *http.ServeMux, parent string, g Group) {
	prefix := parent + g.Prefix
	for _, rt := range g.Routes {
		mux.HandleFunc(rt.Method+" "+prefix+rt.Pattern, rt.Handler)
	}
	for _, child := range g.Children {
		registerGroup(mux, prefix, child)
	}
}
