// internal/app/features/requests/handler.go
package requests

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/sdgbridge/internal/app/features/errors"
	"github.com/dalemusser/sdgbridge/internal/app/store/queries/requestviews"
	requeststore "github.com/dalemusser/sdgbridge/internal/app/store/requests"
	"github.com/dalemusser/sdgbridge/internal/app/system/authz"
	"github.com/dalemusser/sdgbridge/internal/app/system/navigation"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the per-user request hub and request resolution.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Requests *requeststore.Store
	Views    func(ctx context.Context, userID primitive.ObjectID) (requestviews.Inbox, error)
}

func NewHandler(
	requests *requeststore.Store,
	views func(ctx context.Context, userID primitive.ObjectID) (requestviews.Inbox, error),
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		Requests: requests,
		Views:    views,
	}
}

type hubData struct {
	viewdata.BaseVM
	Inbox requestviews.Inbox
}

// ServeHub handles GET /requests.
//
// The page is all-or-nothing: if either list fails to load we show the error
// page rather than a half-empty inbox that looks authoritative.
func (h *Handler) ServeHub(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inbox, err := h.Views(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load request inbox failed", err, "A database error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "requests_hub", hubData{
		BaseVM: viewdata.NewBaseVM(r, "Collaboration requests", "/dashboard"),
		Inbox:  inbox,
	})
}

// HandleResolvePost handles POST /requests/{requestID}/resolve with a
// decision form value of accepted or rejected.
func (h *Handler) HandleResolvePost(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad request id", "Request not found.", "/requests")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/requests")
		return
	}
	decision := r.FormValue("decision")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Requests.Resolve(ctx, userID, requestID, decision)
	switch {
	case errors.Is(err, requeststore.ErrRequestNotFound), errors.Is(err, requeststore.ErrProjectNotFound):
		h.ErrLog.LogNotFound(w, r, "resolve missing request", "Request not found.", "/requests")
		return
	case errors.Is(err, requeststore.ErrNotOwner):
		h.ErrLog.LogForbidden(w, r, "resolve by non-owner", "Only the project owner can resolve its requests.", "/requests")
		return
	case errors.Is(err, requeststore.ErrAlreadyResolved):
		h.ErrLog.LogForbidden(w, r, "conflicting resolve", "This request was already resolved the other way.", "/requests")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "resolve request failed", err, "Unable to resolve the request.", "/requests")
		return
	}

	h.Log.Info("collaboration request resolved",
		zap.String("request_id", requestID.Hex()),
		zap.String("owner_id", userID.Hex()),
		zap.String("decision", decision))

	// Resolution happens from the hub or from the project page; return the
	// owner to wherever they came from.
	back := navigation.SafeBackURL(r, navigation.RequestsBackURL)
	http.Redirect(w, r, back, http.StatusSeeOther)
}
