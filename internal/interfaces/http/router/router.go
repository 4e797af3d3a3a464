// Package router assembles the portal's HTTP surface. Bounded contexts
// describe their routes as DomainGroups, and the Router mounts every
// group under one versioned prefix.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a set of routes on a gin router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>. Middleware added via
// Use runs ahead of every mounted group.
type Router struct {
	engine  *gin.Engine
	version string
	shared  []gin.HandlerFunc
	groups  []RouteRegistrar
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAPIVersion sets the API version segment (e.g. "v1", "v2").
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// NewRouter wraps an existing gin engine. The version defaults to v1.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware shared by every mounted group. Must be called
// before Setup.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.shared = append(r.shared, middleware...)
	return r
}

// Register queues a registrar for Setup.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.groups = append(r.groups, registrar)
	return r
}

// Setup binds every queued registrar onto the engine.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.version)
	api.Use(r.shared...)
	for _, g := range r.groups {
		g.RegisterRoutes(api)
	}
}

// DomainGroup records the routes of one bounded context without touching
// the engine. Binding happens in RegisterRoutes, so groups can be
// assembled in any order before the Router mounts them.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*DomainGroup
}

type route struct {
	verb  string
	path  string
	chain []gin.HandlerFunc
}

// NewDomainGroup creates a route group. The name labels the group for
// diagnostics; only the prefix shapes URLs.
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Name returns the group's display name.
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Use adds middleware scoped to this group and its subgroups.
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) record(verb, path string, chain []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{verb: verb, path: path, chain: chain})
	return dg
}

// GET records a GET route.
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.record(http.MethodGet, path, handlers)
}

// POST records a POST route.
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.record(http.MethodPost, path, handlers)
}

// PUT records a PUT route.
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.record(http.MethodPut, path, handlers)
}

// PATCH records a PATCH route.
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.record(http.MethodPatch, path, handlers)
}

// DELETE records a DELETE route.
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.record(http.MethodDelete, path, handlers)
}

// Group nests a sub-group under this one.
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(name, prefix)
	dg.children = append(dg.children, child)
	return child
}

// RegisterRoutes binds the recorded routes, implementing RouteRegistrar.
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.verb, rt.path, rt.chain...)
	}
	for _, child := range dg.children {
		child.RegisterRoutes(group)
	}
}
