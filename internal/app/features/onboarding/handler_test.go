package onboarding_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/sdgbridge/internal/app/features/errors"
	"github.com/dalemusser/sdgbridge/internal/app/features/onboarding"
	userstore "github.com/dalemusser/sdgbridge/internal/app/store/users"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/sdgbridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*onboarding.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := onboarding.NewHandler(userstore.New(db), uierrors.NewErrorLogger(logger), logger)
	return handler, testutil.NewFixtures(t, db)
}

func TestHandleRoleSelectionPost_SetsRole(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "New Person", "new@example.com", "")

	req := testutil.NewFormRequest("/role-selection", map[string]string{"role": "startup"}, testutil.AsUser(u))
	rec := httptest.NewRecorder()
	handler.HandleRoleSelectionPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}

	var got models.User
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": u.ID}).Decode(&got); err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.Role != models.RoleStartup {
		t.Errorf("Role: got %q, want %q", got.Role, models.RoleStartup)
	}
}

func TestHandleRoleSelectionPost_NormalizesCase(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "New Person", "new@example.com", "")

	req := testutil.NewFormRequest("/role-selection", map[string]string{"role": "  NGO "}, testutil.AsUser(u))
	rec := httptest.NewRecorder()
	handler.HandleRoleSelectionPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	var got models.User
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": u.ID}).Decode(&got); err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.Role != models.RoleNGO {
		t.Errorf("Role: got %q, want %q", got.Role, models.RoleNGO)
	}
}

func TestHandleRoleSelectionPost_RejectsUnknownRole(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "New Person", "new@example.com", "")

	req := testutil.NewFormRequest("/role-selection", map[string]string{"role": "wizard"}, testutil.AsUser(u))
	rec := httptest.NewRecorder()

	// Handler re-renders the form with an error
	func() {
		defer func() { recover() }()
		handler.HandleRoleSelectionPost(rec, req)
	}()

	var got models.User
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": u.ID}).Decode(&got); err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.Role != "" {
		t.Errorf("Role: got %q, want empty after rejected role", got.Role)
	}
}

func TestHandleRoleSelectionPost_NotSignedIn(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/role-selection", nil)
	rec := httptest.NewRecorder()
	handler.HandleRoleSelectionPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location: got %q, want %q", loc, "/login")
	}
}

func TestServeRoleSelection_AlreadyOnboardedRedirects(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateNGO(ctx, "Settled Person", "settled@example.com")

	req := testutil.NewAuthenticatedRequest("GET", "/role-selection", testutil.AsUser(u))
	rec := httptest.NewRecorder()
	handler.ServeRoleSelection(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}
}
