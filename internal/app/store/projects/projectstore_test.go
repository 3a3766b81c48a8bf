package projectstore_test

import (
	"errors"
	"testing"
	"time"

	projectstore "github.com/dalemusser/sdgbridge/internal/app/store/projects"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/sdgbridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateNGO(ctx, "Project Owner", "owner@test.com")

	created, err := store.Create(ctx, models.Project{
		Title:       "Clean Water Initiative",
		Description: "Bring filtered water to rural schools.",
		SDG:         6,
		Location:    "São Paulo",
		HelpNeeded:  []string{"funding", "volunteers"},
		OwnerID:     owner.ID,
		OwnerName:   owner.FullName,
		OwnerRole:   owner.Role,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.TitleCI != "clean water initiative" {
		t.Errorf("title_ci: got %q", created.TitleCI)
	}
	if created.LocationCI != "sao paulo" {
		t.Errorf("location_ci: got %q", created.LocationCI)
	}
	if created.Status != "active" {
		t.Errorf("status: got %q, want active", created.Status)
	}
}

func TestStore_Create_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateNGO(ctx, "Project Owner", "owner@test.com")

	_, err := store.Create(ctx, models.Project{Title: "Bad Goal", SDG: 18, OwnerID: owner.ID})
	if !errors.Is(err, projectstore.ErrInvalidSDG) {
		t.Errorf("sdg 18: got %v, want ErrInvalidSDG", err)
	}
	_, err = store.Create(ctx, models.Project{Title: "Bad Goal", SDG: 0, OwnerID: owner.ID})
	if !errors.Is(err, projectstore.ErrInvalidSDG) {
		t.Errorf("sdg 0: got %v, want ErrInvalidSDG", err)
	}
	_, err = store.Create(ctx, models.Project{
		Title: "Bad Help", SDG: 6, HelpNeeded: []string{"miracles"}, OwnerID: owner.ID,
	})
	if !errors.Is(err, projectstore.ErrInvalidHelpType) {
		t.Errorf("unknown help type: got %v, want ErrInvalidHelpType", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateNGO(ctx, "Project Owner", "owner@test.com")
	project := f.CreateProject(ctx, owner, "Original Title", 6)

	err := store.Update(ctx, project.ID, models.Project{
		Title: "Updated Title",
		SDG:   7,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.TitleCI != "updated title" {
		t.Errorf("title_ci: got %q", got.TitleCI)
	}
	if got.SDG != 7 {
		t.Errorf("sdg: got %d, want 7", got.SDG)
	}
	if got.OwnerID != owner.ID {
		t.Error("owner must not change on update")
	}
}

func TestStore_Delete_CascadesRequests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateNGO(ctx, "Project Owner", "owner@test.com")
	requester := f.CreateStartup(ctx, "Eager Startup", "startup@test.com")
	doomed := f.CreateProject(ctx, owner, "Doomed Project", 6)
	other := f.CreateProject(ctx, owner, "Surviving Project", 7)

	f.CreateRequest(ctx, doomed, requester, models.RequestPending, time.Now())
	keep := f.CreateRequest(ctx, other, requester, models.RequestPending, time.Now())

	n, err := store.Delete(ctx, doomed.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}

	// Requests on the deleted project are gone; others survive.
	count, err := db.Collection("collab_requests").CountDocuments(ctx, bson.M{"project_id": doomed.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("requests on deleted project: got %d, want 0", count)
	}
	count, err = db.Collection("collab_requests").CountDocuments(ctx, bson.M{"_id": keep.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Error("request on surviving project was lost")
	}
}

func TestSearchFilter(t *testing.T) {
	filter := projectstore.SearchFilter("", 0, "")
	if filter["status"] != "active" {
		t.Error("default filter must scope to active projects")
	}
	if _, ok := filter["$or"]; ok {
		t.Error("empty query must not add a text clause")
	}

	filter = projectstore.SearchFilter("Água Limpa", 6, "funding")
	if _, ok := filter["$or"]; !ok {
		t.Error("query must add a text clause")
	}
	if filter["sdg"] != 6 {
		t.Errorf("sdg: got %v, want 6", filter["sdg"])
	}
	if filter["help_needed"] != "funding" {
		t.Errorf("help_needed: got %v", filter["help_needed"])
	}
}

func TestStore_ForOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateNGO(ctx, "Project Owner", "owner@test.com")
	other := f.CreateNGO(ctx, "Other Owner", "other@test.com")

	f.CreateProject(ctx, owner, "Mine One", 1)
	f.CreateProject(ctx, owner, "Mine Two", 2)
	f.CreateProject(ctx, other, "Not Mine", 3)

	got, err := store.ForOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ForOwner failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d projects, want 2", len(got))
	}
	for _, p := range got {
		if p.OwnerID != owner.ID {
			t.Errorf("project %q belongs to %v", p.Title, p.OwnerID)
		}
	}
}
