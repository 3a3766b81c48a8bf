// internal/app/features/requests/routes.go
package requests

import (
	"github.com/dalemusser/sdgbridge/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /requests subrouter. Everything here is per-user, so
// the whole tree requires a signed-in, onboarded user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireOnboarded)

	r.Get("/", h.ServeHub)
	r.Post("/{requestID}/resolve", h.HandleResolvePost)

	return r
}
