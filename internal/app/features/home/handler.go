// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	projectstore "github.com/dalemusser/sdgbridge/internal/app/store/projects"
	"github.com/dalemusser/sdgbridge/internal/app/system/sdg"
	"github.com/dalemusser/sdgbridge/internal/app/system/timeouts"
	"github.com/dalemusser/sdgbridge/internal/app/system/viewdata"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Projects *projectstore.Store
}

func NewHandler(db *mongo.Database, projects *projectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Projects: projects,
	}
}

type homeData struct {
	viewdata.BaseVM
	Goals  []sdg.Goal
	Recent []models.Project
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Landing page shows a handful of fresh projects; a load failure here is
	// not worth a 500, the page just renders without them.
	recent, err := h.Projects.Find(ctx,
		bson.M{"status": "active"},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(6),
	)
	if err != nil {
		h.Log.Warn("home: load recent projects failed", zap.Error(err))
		recent = nil
	}

	templates.Render(w, r, "home", homeData{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
		Goals:  sdg.Goals(),
		Recent: recent,
	})
}
