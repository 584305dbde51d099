package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Page holds the handlers serving a named route. Post is optional and handles the page's form.
type Page struct {
	Get  http.HandlerFunc
	Post http.HandlerFunc
}

// Mount mounts the route table on router. Every named route must have a page.
// Requests that match no route are redirected to Home.
func Mount(router chi.Router, table []Route, pages map[string]Page, guard *Guard) error {
	for _, route := range Flatten(table) {
		if route.RedirectTo != "" {
			target := URL(route.RedirectTo)
			router.Get(route.Path, func(w http.ResponseWriter, r *http.Request) {
				Redirect(w, r, target)
			})
			continue
		}

		page, ok := pages[route.Name]
		if !ok || (page.Get == nil && page.Post == nil) {
			return fmt.Errorf("no page registered for route %q", route.Name)
		}

		guarded := router.With(guard.Middleware(route))
		if page.Get != nil {
			guarded.Get(route.Path, page.Get)
		}
		if page.Post != nil {
			guarded.Post(route.Path, page.Post)
		}
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		Redirect(w, r, URL(Home))
	})

	return nil
}
