// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/sdgbridge/internal/app/system/authz"
	"github.com/dalemusser/sdgbridge/internal/app/system/inputval"
	"github.com/dalemusser/sdgbridge/internal/app/system/sdg"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// loadOwnedProject fetches the project and checks the signed-in user owns it.
// On failure it has already written the response and returns ok=false.
func (h *Handler) loadOwnedProject(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Project, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad project id", "Project not found.", "/projects")
		return models.Project{}, false
	}

	project, err := h.Projects.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "project not found", "Project not found.", "/projects")
		return models.Project{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load project failed", err, "A database error occurred.", "/projects")
		return models.Project{}, false
	}

	if !authz.IsOwner(r, project.OwnerID) {
		h.ErrLog.LogForbidden(w, r, "edit attempt by non-owner", "Only the project owner can do that.", "/projects/"+project.ID.Hex())
		return models.Project{}, false
	}
	return project, true
}

// ServeEdit handles GET /projects/{projectID}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, ok := h.loadOwnedProject(ctx, w, r)
	if !ok {
		return
	}

	selected := map[string]bool{}
	for _, t := range project.HelpNeeded {
		selected[t] = true
	}
	h.renderForm(w, r, formData{
		BaseVM:     viewdata.NewBaseVM(r, "Edit project", "/projects/"+project.ID.Hex()),
		Editing:    true,
		ProjectID:  project.ID.Hex(),
		Title:      project.Title,
		Descr:      project.Description,
		SDG:        project.SDG,
		Location:   project.Location,
		HelpNeeded: selected,
		Goals:      goalOptions(),
		HelpTypes:  models.HelpTypes,
	})
}

// HandleEditPost handles POST /projects/{projectID}/edit.
func (h *Handler) HandleEditPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, ok := h.loadOwnedProject(ctx, w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects/"+project.ID.Hex()+"/edit")
		return
	}

	in := projectInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
	}
	goal, _ := strconv.Atoi(r.FormValue("sdg"))
	helpNeeded := r.Form["help_needed"]

	fail := func(msg string) {
		selected := map[string]bool{}
		for _, t := range helpNeeded {
			selected[t] = true
		}
		h.renderForm(w, r, formData{
			BaseVM:     viewdata.NewBaseVM(r, "Edit project", "/projects/"+project.ID.Hex()),
			Error:      msg,
			Editing:    true,
			ProjectID:  project.ID.Hex(),
			Title:      in.Title,
			Descr:      in.Description,
			SDG:        goal,
			Location:   in.Location,
			HelpNeeded: selected,
			Goals:      goalOptions(),
			HelpTypes:  models.HelpTypes,
		})
	}

	if res := inputval.Validate(in); res.HasErrors() {
		fail(res.First())
		return
	}
	if !sdg.Valid(goal) {
		fail("Please pick one of the 17 goals.")
		return
	}
	if len(helpNeeded) == 0 {
		fail("Pick at least one kind of help you're looking for.")
		return
	}
	for _, t := range helpNeeded {
		if !models.ValidHelpType(t) {
			fail("Unknown help type selected.")
			return
		}
	}

	err := h.Projects.Update(ctx, project.ID, models.Project{
		Title:       in.Title,
		Description: h.sanitizer.Sanitize(in.Description),
		SDG:         goal,
		Location:    in.Location,
		HelpNeeded:  helpNeeded,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update project failed", err, "Unable to save changes.", "/projects/"+project.ID.Hex()+"/edit")
		return
	}

	h.Log.Info("project updated", zap.String("project_id", project.ID.Hex()))

	http.Redirect(w, r, "/projects/"+project.ID.Hex(), http.StatusSeeOther)
}

// HandleDeletePost handles POST /projects/{projectID}/delete.
// Deleting a project removes its collaboration requests with it.
func (h *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, ok := h.loadOwnedProject(ctx, w, r)
	if !ok {
		return
	}

	if _, err := h.Projects.Delete(ctx, project.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete project failed", err, "Unable to delete the project.", "/projects/"+project.ID.Hex())
		return
	}

	h.Log.Info("project deleted", zap.String("project_id", project.ID.Hex()))

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/projects")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}
