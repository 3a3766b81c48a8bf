// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/sdgbridge/internal/app/system/sdg"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrInvalidSDG      = errors.New("sdg goal must be between 1 and 17")
	ErrInvalidHelpType = errors.New("unknown help type")
)

type Store struct {
	c        *mongo.Collection
	requests *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("projects"),
		requests: db.Collection("collab_requests"),
	}
}

// Create inserts a new project. Owner fields must already be set by the
// caller; they are denormalized and immutable after this point.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	if !sdg.Valid(p.SDG) {
		return models.Project{}, ErrInvalidSDG
	}
	for _, h := range p.HelpNeeded {
		if !models.ValidHelpType(h) {
			return models.Project{}, ErrInvalidHelpType
		}
	}
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.TitleCI = text.Fold(p.Title)
	p.LocationCI = text.Fold(p.Location)
	if p.Status == "" {
		p.Status = "active"
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Update modifies a project's mutable fields and refreshes UpdatedAt.
// Owner fields are never touched.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Project) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if p.Title != "" {
		set["title"] = p.Title
		set["title_ci"] = text.Fold(p.Title)
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	if p.SDG != 0 {
		if !sdg.Valid(p.SDG) {
			return ErrInvalidSDG
		}
		set["sdg"] = p.SDG
	}
	if p.Location != "" {
		set["location"] = p.Location
		set["location_ci"] = text.Fold(p.Location)
	}
	if p.HelpNeeded != nil {
		for _, h := range p.HelpNeeded {
			if !models.ValidHelpType(h) {
				return ErrInvalidHelpType
			}
		}
		set["help_needed"] = p.HelpNeeded
	}
	if p.Status != "" {
		set["status"] = p.Status
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a project and all collaboration requests that target it.
// Returns the number of project documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		if _, err := s.requests.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
			return res.DeletedCount, err
		}
	}
	return res.DeletedCount, nil
}

// Find returns projects matching the given filter with optional find options.
// The caller is responsible for building the filter and options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var ps []models.Project
	if err := cur.All(ctx, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// Count returns how many projects match the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// ForOwner returns the projects posted by the given user, newest first.
func (s *Store) ForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.Find(ctx, bson.M{"owner_id": ownerID}, opts)
}

// SearchFilter builds the listing filter for the browse page. Query matches
// title or location case-insensitively; goal and help narrow by SDG number
// and requested help type. Zero values are ignored.
func SearchFilter(query string, goal int, help string) bson.M {
	filter := bson.M{"status": "active"}
	if q := text.Fold(query); q != "" {
		filter["$or"] = bson.A{
			bson.M{"title_ci": bson.M{"$regex": regexp.QuoteMeta(q)}},
			bson.M{"location_ci": bson.M{"$regex": regexp.QuoteMeta(q)}},
		}
	}
	if goal != 0 {
		filter["sdg"] = goal
	}
	if help != "" {
		filter["help_needed"] = help
	}
	return filter
}
