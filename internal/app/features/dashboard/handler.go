// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/sdgbridge/internal/app/features/errors"
	projectstore "github.com/dalemusser/sdgbridge/internal/app/store/projects"
	"github.com/dalemusser/sdgbridge/internal/app/store/queries/requestviews"
	requeststore "github.com/dalemusser/sdgbridge/internal/app/store/requests"
	"github.com/dalemusser/sdgbridge/internal/app/system/authz"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the signed-in landing page.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Projects *projectstore.Store
	Requests *requeststore.Store
	Views    func(ctx context.Context, userID primitive.ObjectID) (requestviews.Inbox, error)
}

func NewHandler(
	projects *projectstore.Store,
	requests *requeststore.Store,
	views func(ctx context.Context, userID primitive.ObjectID) (requestviews.Inbox, error),
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		Projects: projects,
		Requests: requests,
		Views:    views,
	}
}

type dashData struct {
	viewdata.BaseVM
	MyProjects      []models.Project
	SDGsCovered     int
	PendingReceived int64
	SentPending     int
	SentAccepted    int
	RecentReceived  []requestviews.RequestView
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if role == "" {
		http.Redirect(w, r, "/role-selection", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	mine, err := h.Projects.ForOwner(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load own projects failed", err, "A database error occurred.", "/")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(mine))
	for _, p := range mine {
		ids = append(ids, p.ID)
	}
	pending, err := h.Requests.CountPendingForProjects(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count pending requests failed", err, "A database error occurred.", "/")
		return
	}

	inbox, err := h.Views(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load request inbox failed", err, "A database error occurred.", "/")
		return
	}

	goals := map[int]bool{}
	for _, p := range mine {
		goals[p.SDG] = true
	}

	data := dashData{
		BaseVM:          viewdata.NewBaseVM(r, "Dashboard", "/"),
		MyProjects:      mine,
		SDGsCovered:     len(goals),
		PendingReceived: pending,
		RecentReceived:  recent(inbox.Received, 5),
	}
	for _, v := range inbox.Sent {
		switch v.Status {
		case models.RequestPending:
			data.SentPending++
		case models.RequestAccepted:
			data.SentAccepted++
		}
	}

	templates.Render(w, r, "dashboard", data)
}

func recent(views []requestviews.RequestView, n int) []requestviews.RequestView {
	if len(views) <= n {
		return views
	}
	return views[:n]
}
