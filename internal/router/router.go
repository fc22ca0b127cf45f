package router

import (
	"net/http"
	"slices"
	"strings"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Router registers method patterns on an http.ServeMux, wrapping each handler
// in the router's middleware chain. Groups and mounts share the mux.
type Router struct {
	mux    *http.ServeMux
	prefix string
	chain  []Middleware
	routes *[]string
}

// New creates a Router. middleware runs, in order, around every route.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		chain:  middleware,
		routes: new([]string),
	}
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
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

// Handle registers handler for method and the router's prefix plus pattern.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	route := method + " " + r.prefix + pattern
	r.mux.Handle(route, r.wrap(handler, middleware))
	*r.routes = append(*r.routes, route)
}

// wrap applies the chain then middleware, outermost first.
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	chain := append(slices.Clone(r.chain), middleware...)
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}

// Group returns a router on the same mux and prefix with extra middleware.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:    r.mux,
		prefix: r.prefix,
		chain:  append(slices.Clone(r.chain), middleware...),
		routes: r.routes,
	}
}

// Mount returns a group whose patterns are registered under prefix.
//
//	api := r.Mount("/api")
//	api.Get("/cart", h.View) // GET /api/cart
func (r *Router) Mount(prefix string, middleware ...Middleware) *Router {
	sub := r.Group(middleware...)
	sub.prefix = r.prefix + strings.TrimSuffix(prefix, "/")
	return sub
}

// NotFound handles every request no other pattern matches. The middleware
// chain runs for it too.
func (r *Router) NotFound(handler http.HandlerFunc) {
	r.mux.Handle(r.prefix+"/", r.wrap(handler, nil))
}

// Routes lists the registered method patterns, sorted.
func (r *Router) Routes() []string {
	routes := slices.Clone(*r.routes)
	slices.Sort(routes)
	return routes
}
