package providers

import (
	"catalogd/internal/structures"
	"net/http"
	"strings"
)

// RouterProviderInterface collects the daemon's route table. The table
// has two surfaces: the public content routes (GET-only) and the admin
// routes, registered under a shared prefix through Group.
type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Group(prefix string) *RouteGroup
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	routes []structures.Route
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(url, allowMethods(handler, http.MethodGet))
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(url, allowMethods(handler, http.MethodPost))
}

// Group scopes subsequent registrations under a common URL prefix.
func (rp *RouterProvider) Group(prefix string) *RouteGroup {
	return &RouteGroup{rp: rp, prefix: strings.TrimRight(prefix, "/")}
}

func (rp *RouterProvider) add(url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Handler: handler,
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

type RouteGroup struct {
	rp     *RouterProvider
	prefix string
}

func (g *RouteGroup) Get(url string, handler http.Handler) {
	g.rp.Get(g.prefix+url, handler)
}

func (g *RouteGroup) Post(url string, handler http.Handler) {
	g.rp.Post(g.prefix+url, handler)
}

// allowMethods rejects every other method with 405 and names the
// accepted ones in the Allow header.
func allowMethods(handler http.Handler, methods ...string) http.Handler {
	allow := strings.Join(methods, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, m := range methods {
			if r.Method == m {
				handler.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("Allow", allow)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
}
