package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/sdgbridge/internal/app/system/auth"
	"github.com/dalemusser/sdgbridge/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	role, name, userID, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false without a user in context")
	}
	if role != "visitor" {
		t.Errorf("role = %q, want visitor", role)
	}
	if name != "" || userID != primitive.NilObjectID {
		t.Errorf("expected zero name and NilObjectID, got %q %v", name, userID)
	}
}

func TestUserCtx_ValidUser(t *testing.T) {
	oid := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:   oid.Hex(),
		Name: "Amina",
		Role: "NGO",
	})

	role, name, userID, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "ngo" {
		t.Errorf("role = %q, want lowercased ngo", role)
	}
	if name != "Amina" {
		t.Errorf("name = %q", name)
	}
	if userID != oid {
		t.Errorf("userID = %v, want %v", userID, oid)
	}
}

func TestUserCtx_MalformedID_FailsClosed(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:   "not-an-object-id",
		Role: "ngo",
	})

	role, _, _, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false for malformed user ID")
	}
	if role != "visitor" {
		t.Errorf("role = %q, want visitor", role)
	}
}

func TestHasAnyRole(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: "startup",
	})

	if !authz.HasAnyRole(req, "ngo", "startup") {
		t.Error("expected startup to match")
	}
	if authz.HasAnyRole(req, "government") {
		t.Error("did not expect government to match")
	}
	if authz.HasAnyRole(httptest.NewRequest("GET", "/", nil), "ngo") {
		t.Error("expected false without a user")
	}
}

func TestIsOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:   owner.Hex(),
		Role: "ngo",
	})

	if !authz.IsOwner(req, owner) {
		t.Error("expected owner to match")
	}
	if authz.IsOwner(req, primitive.NewObjectID()) {
		t.Error("did not expect a different ID to match")
	}
}

func TestIsOnboarded(t *testing.T) {
	noRole := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID: primitive.NewObjectID().Hex(),
	})
	if authz.IsOnboarded(noRole) {
		t.Error("user without role should not be onboarded")
	}

	withRole := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: "fundraiser",
	})
	if !authz.IsOnboarded(withRole) {
		t.Error("user with role should be onboarded")
	}
}
