package requests_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/sdgbridge/internal/app/features/errors"
	"github.com/dalemusser/sdgbridge/internal/app/features/requests"
	"github.com/dalemusser/sdgbridge/internal/app/store/queries/requestviews"
	requeststore "github.com/dalemusser/sdgbridge/internal/app/store/requests"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/sdgbridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*requests.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	views := func(ctx context.Context, userID primitive.ObjectID) (requestviews.Inbox, error) {
		return requestviews.ForUser(ctx, db, userID)
	}
	handler := requests.NewHandler(requeststore.New(db), views, errLog, logger)
	return handler, testutil.NewFixtures(t, db)
}

func resolveRequest(handler *requests.Handler, requestID primitive.ObjectID, decision string, as testutil.TestUser) *testutil.ResponseRecorder {
	req := testutil.NewFormRequestValues("/requests/"+requestID.Hex()+"/resolve", url.Values{
		"decision": {decision},
	}, as)
	req = testutil.WithChiURLParam(req, "requestID", requestID.Hex())
	rec := testutil.NewRecorder()

	// Error paths render templates; tolerate the panic in tests
	func() {
		defer func() { recover() }()
		handler.HandleResolvePost(rec, req)
	}()
	return rec
}

func requestStatus(t *testing.T, db *mongo.Database, id primitive.ObjectID) string {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var cr models.CollabRequest
	if err := db.Collection("collab_requests").FindOne(ctx, bson.M{"_id": id}).Decode(&cr); err != nil {
		t.Fatalf("find request: %v", err)
	}
	return cr.Status
}

func TestHandleResolvePost_Accept(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateNGO(ctx, "Maria Flores", "maria@example.com")
	requester := fixtures.CreateStartup(ctx, "Sami Oduya", "sami@example.com")
	project := fixtures.CreateProject(ctx, owner, "Clean Water", 6)
	cr := fixtures.CreateRequest(ctx, project, requester, models.RequestPending, time.Now().UTC())

	rec := resolveRequest(handler, cr.ID, "accepted", testutil.AsUser(owner))

	rec.AssertRedirect(t, "/requests")
	if got := requestStatus(t, fixtures.DB(), cr.ID); got != models.RequestAccepted {
		t.Errorf("status: got %q, want accepted", got)
	}
}

func TestHandleResolvePost_Reject(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateNGO(ctx, "Maria Flores", "maria@example.com")
	requester := fixtures.CreateStartup(ctx, "Sami Oduya", "sami@example.com")
	project := fixtures.CreateProject(ctx, owner, "Clean Water", 6)
	cr := fixtures.CreateRequest(ctx, project, requester, models.RequestPending, time.Now().UTC())

	rec := resolveRequest(handler, cr.ID, "rejected", testutil.AsUser(owner))

	rec.AssertRedirect(t, "/requests")
	if got := requestStatus(t, fixtures.DB(), cr.ID); got != models.RequestRejected {
		t.Errorf("status: got %q, want rejected", got)
	}
}

func TestHandleResolvePost_NonOwnerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateNGO(ctx, "Maria Flores", "maria@example.com")
	requester := fixtures.CreateStartup(ctx, "Sami Oduya", "sami@example.com")
	project := fixtures.CreateProject(ctx, owner, "Clean Water", 6)
	cr := fixtures.CreateRequest(ctx, project, requester, models.RequestPending, time.Now().UTC())

	// The requester tries to accept their own request
	rec := resolveRequest(handler, cr.ID, "accepted", testutil.AsUser(requester))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
	if got := requestStatus(t, fixtures.DB(), cr.ID); got != models.RequestPending {
		t.Errorf("status: got %q, want still pending", got)
	}
}

func TestHandleResolvePost_RepeatSameDecisionOK(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateNGO(ctx, "Maria Flores", "maria@example.com")
	requester := fixtures.CreateStartup(ctx, "Sami Oduya", "sami@example.com")
	project := fixtures.CreateProject(ctx, owner, "Clean Water", 6)
	cr := fixtures.CreateRequest(ctx, project, requester, models.RequestPending, time.Now().UTC())

	resolveRequest(handler, cr.ID, "accepted", testutil.AsUser(owner))
	rec := resolveRequest(handler, cr.ID, "accepted", testutil.AsUser(owner))

	// Retrying the same decision is a no-op redirect, not an error
	rec.AssertRedirect(t, "/requests")
	if got := requestStatus(t, fixtures.DB(), cr.ID); got != models.RequestAccepted {
		t.Errorf("status: got %q, want accepted", got)
	}
}

func TestHandleResolvePost_ConflictingDecision(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateNGO(ctx, "Maria Flores", "maria@example.com")
	requester := fixtures.CreateStartup(ctx, "Sami Oduya", "sami@example.com")
	project := fixtures.CreateProject(ctx, owner, "Clean Water", 6)
	cr := fixtures.CreateRequest(ctx, project, requester, models.RequestPending, time.Now().UTC())

	resolveRequest(handler, cr.ID, "accepted", testutil.AsUser(owner))
	rec := resolveRequest(handler, cr.ID, "rejected", testutil.AsUser(owner))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
	if got := requestStatus(t, fixtures.DB(), cr.ID); got != models.RequestAccepted {
		t.Errorf("status: got %q, want accepted to stick", got)
	}
}

func TestHandleResolvePost_UnknownRequest(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateNGO(ctx, "Maria Flores", "maria@example.com")

	rec := resolveRequest(handler, primitive.NewObjectID(), "accepted", testutil.AsUser(owner))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleResolvePost_InvalidDecision(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateNGO(ctx, "Maria Flores", "maria@example.com")
	requester := fixtures.CreateStartup(ctx, "Sami Oduya", "sami@example.com")
	project := fixtures.CreateProject(ctx, owner, "Clean Water", 6)
	cr := fixtures.CreateRequest(ctx, project, requester, models.RequestPending, time.Now().UTC())

	rec := resolveRequest(handler, cr.ID, "pending", testutil.AsUser(owner))

	if rec.Code == http.StatusSeeOther {
		t.Error("invalid decision should not redirect as success")
	}
	if got := requestStatus(t, fixtures.DB(), cr.ID); got != models.RequestPending {
		t.Errorf("status: got %q, want still pending", got)
	}
}

func TestServeHub_NotSignedInRedirects(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/requests")
	rec := testutil.NewRecorder()
	handler.ServeHub(rec, req)

	rec.AssertRedirect(t, "/login")
}
