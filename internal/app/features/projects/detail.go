// internal/app/features/projects/detail.go
package projects

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/dalemusser/sdgbridge/internal/app/system/authz"
	"github.com/dalemusser/sdgbridge/internal/app/system/navigation"
	"github.com/dalemusser/sdgbridge/internal/app/system/sdg"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type detailData struct {
	viewdata.BaseVM
	Project     models.Project
	Description template.HTML
	GoalLabel   string
	IsOwner     bool
	HasRequest  bool
	MyStatus    string
	Requests    []models.CollabRequest
}

// ServeDetail handles GET /projects/{projectID}.
//
// Owners additionally see the project's collaboration requests; other
// signed-in users see whether they already asked to collaborate.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad project id", "Project not found.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, err := h.Projects.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "project not found", "Project not found.", "/projects")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load project failed", err, "A database error occurred.", "/projects")
		return
	}

	d := detailData{
		BaseVM:  viewdata.NewBaseVM(r, project.Title, navigation.ProjectsBackURL.Fallback),
		Project: project,
		// Description HTML was sanitized on write.
		Description: template.HTML(project.Description),
		GoalLabel:   sdg.Name(project.SDG),
	}

	if _, _, userID, ok := authz.UserCtx(r); ok {
		d.IsOwner = userID == project.OwnerID
		if d.IsOwner {
			reqs, err := h.Requests.ForProject(ctx, project.ID)
			if err != nil {
				h.ErrLog.LogServerError(w, r, "load project requests failed", err, "A database error occurred.", "/projects")
				return
			}
			d.Requests = reqs
		} else {
			mine, err := h.Requests.ForRequester(ctx, userID)
			if err != nil {
				h.ErrLog.LogServerError(w, r, "load own requests failed", err, "A database error occurred.", "/projects")
				return
			}
			for _, req := range mine {
				if req.ProjectID == project.ID {
					d.HasRequest = true
					d.MyStatus = req.Status
					break
				}
			}
		}
	}

	templates.Render(w, r, "project_detail", d)
}
