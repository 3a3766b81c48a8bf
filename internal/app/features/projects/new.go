// internal/app/features/projects/new.go
package projects

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/sdgbridge/internal/app/system/authz"
	"github.com/dalemusser/sdgbridge/internal/app/system/inputval"
	"github.com/dalemusser/sdgbridge/internal/app/system/sdg"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"go.uber.org/zap"
)

func goalOptions() []goalOption {
	goals := sdg.Goals()
	opts := make([]goalOption, 0, len(goals))
	for _, g := range goals {
		opts = append(opts, goalOption{Number: g.Number, Label: g.Label})
	}
	return opts
}

// ServeNew handles GET /projects/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formData{
		BaseVM:     viewdata.NewBaseVM(r, "Post a project", "/projects"),
		Goals:      goalOptions(),
		HelpTypes:  models.HelpTypes,
		HelpNeeded: map[string]bool{},
	})
}

// HandleNewPost handles POST /projects/new.
func (h *Handler) HandleNewPost(w http.ResponseWriter, r *http.Request) {
	role, name, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects/new")
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
			BaseVM:     viewdata.NewBaseVM(r, "Post a project", "/projects"),
			Error:      msg,
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Projects.Create(ctx, models.Project{
		Title:       in.Title,
		Description: h.sanitizer.Sanitize(in.Description),
		SDG:         goal,
		Location:    in.Location,
		HelpNeeded:  helpNeeded,
		OwnerID:     userID,
		OwnerName:   name,
		OwnerRole:   role,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create project failed", err, "Unable to save the project.", "/projects/new")
		return
	}

	h.Log.Info("project posted",
		zap.String("project_id", created.ID.Hex()),
		zap.String("owner_id", userID.Hex()),
		zap.Int("sdg", created.SDG))

	http.Redirect(w, r, "/projects/"+created.ID.Hex(), http.StatusSeeOther)
}
