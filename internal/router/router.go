// Package router is a thin layer over http.ServeMux that adds middleware
// chains, route groups and a JSON-friendly fallback for unmatched requests.
package router

import (
	"net/http"
	"slices"
	"sort"
	"strings"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Route is a registered method and pattern.
type Route struct {
	Method  string
	Pattern string
}

// table is shared by a router and every group derived from it.
type table struct {
	mux    *http.ServeMux
	routes []Route
}

// Router registers routes on a shared ServeMux. Groups share the mux and
// the route table but carry their own middleware chain.
type Router struct {
	table *table
	chain []Middleware
}

// New creates a Router whose middleware runs, in order, around every route.
func New(middleware ...Middleware) *Router {
	return &Router{
		table: &table{mux: http.NewServeMux()},
		chain: middleware,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.table.mux.ServeHTTP(w, req)
}

func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

func (r *Router) Put(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPut, pattern, handler, middleware...)
}

func (r *Router) Delete(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodDelete, pattern, handler, middleware...)
}

func (r *Router) Patch(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPatch, pattern, handler, middleware...)
}

// Handle registers handler for method and pattern behind the router's chain
// followed by the route's own middleware.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	r.table.mux.Handle(method+" "+pattern, r.wrap(handler, middleware))
	r.table.routes = append(r.table.routes, Route{Method: method, Pattern: pattern})
}

// Fallback serves every request no route matches, including a known path
// requested with the wrong method. Use Allowed inside h to tell the two apart.
func (r *Router) Fallback(h http.Handler) {
	r.table.mux.Handle("/", r.wrap(h, nil))
}

// Allowed returns the methods registered for req's path, sorted. It is empty
// when the path is unknown.
func (r *Router) Allowed(req *http.Request) []string {
	seen := map[string]bool{}
	for _, rt := range r.table.routes {
		if seen[rt.Method] || rt.Method == req.Method {
			continue
		}
		candidate := req.Clone(req.Context())
		candidate.Method = rt.Method
		if _, pattern := r.table.mux.Handler(candidate); pattern != "" && pattern != "/" {
			seen[rt.Method] = true
		}
	}

	allowed := make([]string, 0, len(seen))
	for m := range seen {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	return allowed
}

// Routes lists registered routes in registration order.
func (r *Router) Routes() []Route {
	return slices.Clone(r.table.routes)
}

// wrap applies the chain so the first middleware given runs outermost.
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	combined := append(slices.Clone(r.chain), middleware...)
	slices.Reverse(combined)

	result := handler
	for _, m := range combined {
		result = m(result)
	}
	return result
}

// Group creates a sub-router with additional middleware
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		table: r.table,
		chain: append(slices.Clone(r.chain), middleware...),
	}
}

// Static serves files under dir at prefix.
func (r *Router) Static(prefix, dir string) {
	cleanPrefix := strings.TrimSuffix(prefix, "/")
	handler := http.StripPrefix(cleanPrefix, http.FileServer(http.Dir(dir)))
	r.Handle(http.MethodGet, cleanPrefix+"/{file...}", handler)
}
