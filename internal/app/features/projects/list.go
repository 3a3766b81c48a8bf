// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"
	"strconv"

	projectstore "github.com/dalemusser/sdgbridge/internal/app/store/projects"
	"github.com/dalemusser/sdgbridge/internal/app/system/sdg"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type listData struct {
	viewdata.BaseVM
	Projects  []models.Project
	Query     string
	SDG       int
	Help      string
	Goals     []sdg.Goal
	HelpTypes []string
	Total     int64
}

// ServeList handles GET /projects with optional q, sdg and help filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Get(r, "q")
	help := query.Get(r, "help")
	goal := 0
	if raw := query.Get(r, "sdg"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && sdg.Valid(n) {
			goal = n
		}
	}
	if help != "" && !models.ValidHelpType(help) {
		help = ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := projectstore.SearchFilter(q, goal, help)

	total, err := h.Projects.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count projects failed", err, "A database error occurred.", "/")
		return
	}

	list, err := h.Projects.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find projects failed", err, "A database error occurred.", "/")
		return
	}

	templates.Render(w, r, "projects_list", listData{
		BaseVM:    viewdata.NewBaseVM(r, "Projects", "/"),
		Projects:  list,
		Query:     q,
		SDG:       goal,
		Help:      help,
		Goals:     sdg.Goals(),
		HelpTypes: models.HelpTypes,
		Total:     total,
	})
}
