package server

import (
	"net/http"

	"github.com/JeanGrijp/dast-demo/csrf"
)

// Route is one entry of the static route table. Engines mount every route
// whose MinVariant does not exceed the configured variant and put the CSRF
// protector in front of routes marked CSRF.
type Route struct {
	Method     string
	Path       string
	MinVariant int
	CSRF       bool
	Link       string // label on the home page, empty to leave it out
	build      func(env) http.Handler
}

type env struct {
	protector *csrf.Protector
	variant   int
	routes    []Route
}

var routeTable = []Route{
	{Method: http.MethodGet, Path: "/", MinVariant: 1,
		build: func(e env) http.Handler { return homePage(e.routes, e.variant) }},
	{Method: http.MethodGet, Path: "/usuarios", MinVariant: 1, Link: "Usuarios",
		build: static(usersHandler)},
	{Method: http.MethodGet, Path: "/stats", MinVariant: 1, Link: "Estadísticas",
		build: static(statsHandler)},

	{Method: http.MethodGet, Path: "/login", MinVariant: 2, Link: "Login",
		build: static(loginFormHandler)},
	{Method: http.MethodPost, Path: "/login", MinVariant: 2,
		build: static(loginHandler)},

	{Method: http.MethodGet, Path: "/form", MinVariant: 3, CSRF: true, Link: "Formulario CSRF",
		build: func(e env) http.Handler { return csrfFormHandler(e.protector.FormField()) }},
	{Method: http.MethodPost, Path: "/process", MinVariant: 3, CSRF: true,
		build: static(processHandler)},
	{Method: http.MethodGet, Path: "/csrf-token", MinVariant: 3, CSRF: true,
		build: func(e env) http.Handler { return e.protector.TokenHandler() }},
}

func static(h http.HandlerFunc) func(env) http.Handler {
	return func(env) http.Handler { return h }
}

type mountedRoute struct {
	Route
	handler http.Handler
}

// mount resolves the handlers of every route enabled for variant. Engines
// put p in front of the CSRF routes themselves.
func mount(p *csrf.Protector, variant int) []mountedRoute {
	e := env{protector: p, variant: variant, routes: routeTable}

	var out []mountedRoute
	for _, rt := range routeTable {
		if rt.MinVariant > variant {
			continue
		}
		out = append(out, mountedRoute{Route: rt, handler: rt.build(e)})
	}
	return out
}
