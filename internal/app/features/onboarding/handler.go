// internal/app/features/onboarding/handler.go
package onboarding

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/sdgbridge/internal/app/features/errors"
	userstore "github.com/dalemusser/sdgbridge/internal/app/store/users"
	"github.com/dalemusser/sdgbridge/internal/app/system/authz"
	"github.com/dalemusser/sdgbridge/internal/app/system/normalize"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the role selection step new accounts go through before they
// can post projects or request collaborations.
type Handler struct {
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Users  *userstore.Store
}

func NewHandler(users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		ErrLog: errLog,
		Users:  users,
	}
}

// roleOption is one selectable organization role.
type roleOption struct {
	Value       string
	Name        string
	Description string
}

type rolePageData struct {
	viewdata.BaseVM
	Error string
	Roles []roleOption
}

func roleOptions() []roleOption {
	return []roleOption{
		{Value: models.RoleNGO, Name: "NGO", Description: "Non-profit running sustainability projects on the ground."},
		{Value: models.RoleStartup, Name: "Startup", Description: "Company building products or services for the SDGs."},
		{Value: models.RoleFundraiser, Name: "Fundraiser", Description: "Individual or group raising money for causes."},
		{Value: models.RoleGovernment, Name: "Government", Description: "Public agency or municipal program."},
	}
}

// ServeRoleSelection handles GET /role-selection.
func (h *Handler) ServeRoleSelection(w http.ResponseWriter, r *http.Request) {
	// Users who already picked a role have nothing to do here.
	if role, _, _, ok := authz.UserCtx(r); ok && role != "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "role_selection", rolePageData{
		BaseVM: viewdata.NewBaseVM(r, "Choose your role", "/"),
		Roles:  roleOptions(),
	})
}

// HandleRoleSelectionPost handles POST /role-selection.
func (h *Handler) HandleRoleSelectionPost(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/role-selection")
		return
	}

	role := normalize.Role(r.FormValue("role"))
	if !models.ValidRole(role) {
		templates.Render(w, r, "role_selection", rolePageData{
			BaseVM: viewdata.NewBaseVM(r, "Choose your role", "/"),
			Error:  "Please pick one of the listed roles.",
			Roles:  roleOptions(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetRole(ctx, userID, role); err != nil {
		if errors.Is(err, userstore.ErrInvalidRole) {
			templates.Render(w, r, "role_selection", rolePageData{
				BaseVM: viewdata.NewBaseVM(r, "Choose your role", "/"),
				Error:  "Please pick one of the listed roles.",
				Roles:  roleOptions(),
			})
			return
		}
		h.ErrLog.LogServerError(w, r, "set role failed", err, "A server error occurred.", "/role-selection")
		return
	}

	h.Log.Info("user picked role",
		zap.String("user_id", userID.Hex()),
		zap.String("role", role))

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
