// internal/app/features/projects/collaborate.go
package projects

import (
	"context"
	"errors"
	"net/http"

	requeststore "github.com/dalemusser/sdgbridge/internal/app/store/requests"
	"github.com/dalemusser/sdgbridge/internal/app/system/authz"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleCollaboratePost handles POST /projects/{projectID}/collaborate.
//
// The requester's profile is loaded fresh so the snapshot on the request
// carries their current name, role and email.
func (h *Handler) HandleCollaboratePost(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad project id", "Project not found.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	requester, err := h.Users.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load requester failed", err, "A database error occurred.", "/projects")
		return
	}

	req, err := h.Requests.Submit(ctx, projectID, requester)
	switch {
	case errors.Is(err, requeststore.ErrProjectNotFound):
		h.ErrLog.LogNotFound(w, r, "collaborate on missing project", "Project not found.", "/projects")
		return
	case errors.Is(err, requeststore.ErrOwnProject):
		h.ErrLog.LogForbidden(w, r, "collaborate on own project", "You can't request collaboration on your own project.", "/projects/"+projectID.Hex())
		return
	case errors.Is(err, requeststore.ErrDuplicateRequest):
		// Already asked; just bring them back to the project page.
		http.Redirect(w, r, "/projects/"+projectID.Hex(), http.StatusSeeOther)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "submit request failed", err, "Unable to send the request.", "/projects/"+projectID.Hex())
		return
	}

	h.Log.Info("collaboration request submitted",
		zap.String("request_id", req.ID.Hex()),
		zap.String("project_id", projectID.Hex()),
		zap.String("requester_id", userID.Hex()))

	http.Redirect(w, r, "/projects/"+projectID.Hex(), http.StatusSeeOther)
}
