package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role. Pass role "" for an
// account that has not completed onboarding yet.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: "internal",
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateNGO creates a test user with the ngo role.
func (f *Fixtures) CreateNGO(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleNGO)
}

// CreateStartup creates a test user with the startup role.
func (f *Fixtures) CreateStartup(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleStartup)
}

// CreateProject creates a test project owned by the given user.
func (f *Fixtures) CreateProject(ctx context.Context, owner models.User, title string, goal int) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "Test project description",
		SDG:         goal,
		Location:    "Test City",
		LocationCI:  text.Fold("Test City"),
		HelpNeeded:  []string{"funding"},
		OwnerID:     owner.ID,
		OwnerName:   owner.FullName,
		OwnerRole:   owner.Role,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("projects").InsertOne(ctx, project)
	if err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreateRequest creates a collaboration request in the given status at the
// given time, bypassing the store so tests can pin timestamps.
func (f *Fixtures) CreateRequest(ctx context.Context, project models.Project, requester models.User, status string, at time.Time) models.CollabRequest {
	f.t.Helper()

	req := models.CollabRequest{
		ID:             primitive.NewObjectID(),
		ProjectID:      project.ID,
		RequesterID:    requester.ID,
		RequesterName:  requester.FullName,
		RequesterRole:  requester.Role,
		RequesterEmail: requester.Email,
		Status:         status,
		RequestedAt:    at.UTC(),
	}
	if status != models.RequestPending {
		resolved := at.UTC().Add(time.Minute)
		req.ResolvedAt = &resolved
	}

	_, err := f.db.Collection("collab_requests").InsertOne(ctx, req)
	if err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}

	return req
}
