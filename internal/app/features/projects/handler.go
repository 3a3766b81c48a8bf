// internal/app/features/projects/handler.go
package projects

import (
	"net/http"

	uierrors "github.com/dalemusser/sdgbridge/internal/app/features/errors"
	projectstore "github.com/dalemusser/sdgbridge/internal/app/store/projects"
	requeststore "github.com/dalemusser/sdgbridge/internal/app/store/requests"
	userstore "github.com/dalemusser/sdgbridge/internal/app/store/users"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves project browsing, posting and editing, plus the
// collaboration request submission that hangs off a project page.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Projects *projectstore.Store
	Requests *requeststore.Store
	Users    *userstore.Store

	sanitizer *bluemonday.Policy
}

func NewHandler(
	db *mongo.Database,
	projects *projectstore.Store,
	requests *requeststore.Store,
	users *userstore.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		Projects:  projects,
		Requests:  requests,
		Users:     users,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// projectInput drives validation for the new/edit forms.
type projectInput struct {
	Title       string `validate:"required,max=200" label:"Project title"`
	Description string `validate:"required,max=5000" label:"Description"`
	Location    string `validate:"required,max=120" label:"Location"`
}

type formData struct {
	viewdata.BaseVM
	Error      string
	Editing    bool
	ProjectID  string
	Title      string
	Descr      string
	SDG        int
	Location   string
	HelpNeeded map[string]bool
	Goals      []goalOption
	HelpTypes  []string
}

type goalOption struct {
	Number int
	Label  string
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, d formData) {
	name := "project_new"
	if d.Editing {
		name = "project_edit"
	}
	templates.Render(w, r, name, d)
}
