// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/sdgbridge/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeDashboard)

	return r
}
