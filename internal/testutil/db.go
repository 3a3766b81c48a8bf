package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupTestDB connects to a local MongoDB instance and returns a database
// dedicated to the calling test. The database is dropped when the test ends.
// Tests are skipped when no MongoDB is reachable, so the suite stays runnable
// on machines without one.
//
// Set SDGBRIDGE_TEST_MONGO_URI to point at a non-default instance.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("SDGBRIDGE_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to test MongoDB at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("skipping: test MongoDB at %s not reachable: %v", uri, err)
	}

	dbName := fmt.Sprintf("sdgbridge_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous timeout for test DB calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// EnsureUniqueUserEmailIndex creates the unique email_ci index on users,
// matching what startup schema provisioning does. Tests that exercise
// duplicate-signup behavior need it in place.
func EnsureUniqueUserEmailIndex(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := TestContext()
	defer cancel()
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_ci", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_users_emailci"),
	})
	if err != nil {
		t.Fatalf("failed to create unique user email index: %v", err)
	}
}

// EnsureUniqueRequestIndex creates the (project_id, requester_id) unique
// index on collab_requests, matching what startup schema provisioning does.
// Tests that exercise duplicate-submission behavior need it in place.
func EnsureUniqueRequestIndex(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := TestContext()
	defer cancel()
	_, err := db.Collection("collab_requests").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "requester_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_requests_project_requester"),
	})
	if err != nil {
		t.Fatalf("failed to create unique request index: %v", err)
	}
}
