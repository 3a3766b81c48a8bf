// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// page builds the error view model. An explicit backURL wins; otherwise the
// back URL is resolved from the request with the given fallback.
func page(r *http.Request, title, msg, backURL, fallback string) pageData {
	base := viewdata.NewBaseVM(r, title, fallback)
	if backURL != "" {
		base.BackURL = backURL
	}
	return pageData{BaseVM: base, Message: msg}
}

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	data := page(r, "Sign in required", "Please sign in to continue.", backURL, "/login")
	templates.Render(w, r, "error_forbidden", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	data := page(r, "Access denied", msg, backURL, "/")
	templates.Render(w, r, "error_forbidden", data)
}

// RenderNotFound shows the 404 page with a custom message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "The page you're looking for doesn't exist."
	}
	w.WriteHeader(http.StatusNotFound)
	data := page(r, "Page not found", msg, backURL, "/")
	templates.Render(w, r, "error_notfound", data)
}

// RenderServerError shows the generic failure page.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	w.WriteHeader(http.StatusInternalServerError)
	data := page(r, "Something went wrong", msg, backURL, "/")
	templates.Render(w, r, "error_server", data)
}
