// internal/app/features/onboarding/routes.go
package onboarding

import (
	"github.com/dalemusser/sdgbridge/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeRoleSelection)
		pr.Post("/", h.HandleRoleSelectionPost)
	})

	return r
}
