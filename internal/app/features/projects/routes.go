// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/sdgbridge/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /projects subrouter. Browsing is public; posting,
// editing and collaborating require a signed-in user with a role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireOnboarded)
		pr.Get("/new", h.ServeNew)
		pr.Post("/new", h.HandleNewPost)
		pr.Get("/{projectID}/edit", h.ServeEdit)
		pr.Post("/{projectID}/edit", h.HandleEditPost)
		pr.Post("/{projectID}/delete", h.HandleDeletePost)
		pr.Post("/{projectID}/collaborate", h.HandleCollaboratePost)
	})

	// Detail stays public but renders more for the owner.
	r.Get("/{projectID}", h.ServeDetail)

	return r
}
