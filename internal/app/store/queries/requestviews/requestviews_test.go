package requestviews_test

import (
	"testing"
	"time"

	"github.com/dalemusser/sdgbridge/internal/app/store/queries/requestviews"
	requeststore "github.com/dalemusser/sdgbridge/internal/app/store/requests"
	"github.com/dalemusser/sdgbridge/internal/domain/models"
	"github.com/dalemusser/sdgbridge/internal/testutil"
)

func TestForUser_EmptyInbox(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateNGO(ctx, "Lonely User", "lonely@test.com")

	inbox, err := requestviews.ForUser(ctx, db, user.ID)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if len(inbox.Sent) != 0 || len(inbox.Received) != 0 {
		t.Errorf("expected empty inbox, got %d sent / %d received", len(inbox.Sent), len(inbox.Received))
	}
}

// A request from alice to bob's project must show up exactly once in alice's
// sent list and exactly once in bob's received list, with matching fields.
func TestForUser_SentAndReceivedPairUp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateStartup(ctx, "Alice", "alice@test.com")
	bob := f.CreateNGO(ctx, "Bob", "bob@test.com")
	project := f.CreateProject(ctx, bob, "Reforestation Drive", 15)
	req := f.CreateRequest(ctx, project, alice, models.RequestPending, time.Now())

	aliceInbox, err := requestviews.ForUser(ctx, db, alice.ID)
	if err != nil {
		t.Fatalf("ForUser(alice) failed: %v", err)
	}
	bobInbox, err := requestviews.ForUser(ctx, db, bob.ID)
	if err != nil {
		t.Fatalf("ForUser(bob) failed: %v", err)
	}

	if len(aliceInbox.Sent) != 1 || len(aliceInbox.Received) != 0 {
		t.Fatalf("alice: got %d sent / %d received, want 1/0", len(aliceInbox.Sent), len(aliceInbox.Received))
	}
	if len(bobInbox.Sent) != 0 || len(bobInbox.Received) != 1 {
		t.Fatalf("bob: got %d sent / %d received, want 0/1", len(bobInbox.Sent), len(bobInbox.Received))
	}

	sent := aliceInbox.Sent[0]
	received := bobInbox.Received[0]
	if sent.ID != req.ID || received.ID != req.ID {
		t.Error("both views must reference the same request document")
	}
	if sent.ProjectTitle != project.Title {
		t.Errorf("sent project title: got %q, want %q", sent.ProjectTitle, project.Title)
	}
	if sent.OwnerName != bob.FullName {
		t.Errorf("sent owner name: got %q, want %q", sent.OwnerName, bob.FullName)
	}
	if received.RequesterName != alice.FullName {
		t.Errorf("received requester name: got %q, want %q", received.RequesterName, alice.FullName)
	}
	if received.RequesterEmail != alice.Email {
		t.Errorf("received requester email: got %q, want %q", received.RequesterEmail, alice.Email)
	}
}

func TestForUser_SortedNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateNGO(ctx, "Owner", "owner@test.com")
	requester := f.CreateStartup(ctx, "Requester", "req@test.com")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pOld := f.CreateProject(ctx, owner, "Oldest", 1)
	pMid := f.CreateProject(ctx, owner, "Middle", 2)
	pNew := f.CreateProject(ctx, owner, "Newest", 3)

	f.CreateRequest(ctx, pOld, requester, models.RequestPending, base)
	f.CreateRequest(ctx, pMid, requester, models.RequestAccepted, base.Add(time.Hour))
	f.CreateRequest(ctx, pNew, requester, models.RequestPending, base.Add(2*time.Hour))

	inbox, err := requestviews.ForUser(ctx, db, requester.ID)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if len(inbox.Sent) != 3 {
		t.Fatalf("got %d sent, want 3", len(inbox.Sent))
	}
	wantTitles := []string{"Newest", "Middle", "Oldest"}
	for i, want := range wantTitles {
		if inbox.Sent[i].ProjectTitle != want {
			t.Errorf("position %d: got %q, want %q", i, inbox.Sent[i].ProjectTitle, want)
		}
	}

	// Same ordering rule on the receiving side.
	ownerInbox, err := requestviews.ForUser(ctx, db, owner.ID)
	if err != nil {
		t.Fatalf("ForUser(owner) failed: %v", err)
	}
	if len(ownerInbox.Received) != 3 {
		t.Fatalf("got %d received, want 3", len(ownerInbox.Received))
	}
	if ownerInbox.Received[0].ProjectTitle != "Newest" {
		t.Errorf("received head: got %q, want %q", ownerInbox.Received[0].ProjectTitle, "Newest")
	}
}

func TestForUser_MultipleRequestersOnOneProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateNGO(ctx, "Owner", "owner@test.com")
	a := f.CreateStartup(ctx, "Startup A", "a@test.com")
	b := f.CreateStartup(ctx, "Startup B", "b@test.com")
	project := f.CreateProject(ctx, owner, "Solar Microgrids", 7)

	f.CreateRequest(ctx, project, a, models.RequestPending, time.Now())
	f.CreateRequest(ctx, project, b, models.RequestPending, time.Now().Add(time.Second))

	inbox, err := requestviews.ForUser(ctx, db, owner.ID)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if len(inbox.Received) != 2 {
		t.Fatalf("got %d received, want 2", len(inbox.Received))
	}
	names := map[string]bool{}
	for _, v := range inbox.Received {
		names[v.RequesterName] = true
	}
	if !names["Startup A"] || !names["Startup B"] {
		t.Error("expected requests from both startups in the received list")
	}
}

// Full workflow through the real store: submit, owner rejects, and the
// requester's sent view reflects the decision.
func TestForUser_ReflectsResolution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateNGO(ctx, "Alice", "alice@test.com")
	requester := f.CreateStartup(ctx, "Bob", "bob@test.com")
	project := f.CreateProject(ctx, owner, "Clean Water Wells", 6)

	store := requeststore.New(db)
	req, err := store.Submit(ctx, project.ID, requester)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	inbox, err := requestviews.ForUser(ctx, db, requester.ID)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if len(inbox.Sent) != 1 || inbox.Sent[0].Status != models.RequestPending {
		t.Fatalf("after submit: got %d sent (status %q), want 1 pending",
			len(inbox.Sent), firstStatus(inbox.Sent))
	}

	if err := store.Resolve(ctx, owner.ID, req.ID, models.RequestRejected); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	inbox, err = requestviews.ForUser(ctx, db, requester.ID)
	if err != nil {
		t.Fatalf("ForUser after resolve failed: %v", err)
	}
	if len(inbox.Sent) != 1 || inbox.Sent[0].Status != models.RequestRejected {
		t.Fatalf("after resolve: got %d sent (status %q), want 1 rejected",
			len(inbox.Sent), firstStatus(inbox.Sent))
	}
}

func firstStatus(views []requestviews.RequestView) string {
	if len(views) == 0 {
		return ""
	}
	return views[0].Status
}
