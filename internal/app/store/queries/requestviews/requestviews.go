// Package requestviews provides the per-user collaboration request
// aggregation used by the requests hub and the dashboard.
//
// A user sees two lists:
//   - Sent:     requests the user submitted to other owners' projects
//   - Received: requests other users submitted to the user's projects
//
// Both lists join the owning project so a row can be rendered without a
// second fetch, and both are sorted by request time descending with _id as
// the tiebreak. If either side cannot be loaded the whole call fails; a
// partial inbox is never returned.
package requestviews

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RequestView is one collaboration request joined with its project.
type RequestView struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	ProjectID      primitive.ObjectID `bson:"project_id" json:"project_id"`
	ProjectTitle   string             `bson:"project_title" json:"project_title"`
	ProjectSDG     int                `bson:"project_sdg" json:"project_sdg"`
	OwnerID        primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerName      string             `bson:"owner_name" json:"owner_name"`
	RequesterID    primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	RequesterName  string             `bson:"requester_name" json:"requester_name"`
	RequesterRole  string             `bson:"requester_role" json:"requester_role"`
	RequesterEmail string             `bson:"requester_email" json:"requester_email"`
	Status         string             `bson:"status" json:"status"`
	RequestedAt    time.Time          `bson:"requested_at" json:"requested_at"`
	ResolvedAt     *time.Time         `bson:"resolved_at" json:"resolved_at,omitempty"`
}

// Inbox is everything the requests hub shows for one user.
type Inbox struct {
	Sent     []RequestView
	Received []RequestView
}

// ForUser loads the complete request inbox for the given user.
func ForUser(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (Inbox, error) {
	sent, err := run(ctx, db, bson.M{"requester_id": userID})
	if err != nil {
		return Inbox{}, err
	}
	received, err := run(ctx, db, bson.M{"project.owner_id": userID})
	if err != nil {
		return Inbox{}, err
	}
	return Inbox{Sent: sent, Received: received}, nil
}

// run executes the join pipeline with a post-lookup match so the same shape
// serves both directions. Requests whose project has vanished mid-query are
// dropped by the $unwind rather than rendered half-empty.
func run(ctx context.Context, db *mongo.Database, match bson.M) ([]RequestView, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "projects",
			"localField":   "project_id",
			"foreignField": "_id",
			"as":           "project",
		}}},
		bson.D{{Key: "$unwind", Value: "$project"}},
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "requested_at", Value: -1},
			{Key: "_id", Value: -1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":             1,
			"project_id":      1,
			"project_title":   "$project.title",
			"project_sdg":     "$project.sdg",
			"owner_id":        "$project.owner_id",
			"owner_name":      "$project.owner_name",
			"requester_id":    1,
			"requester_name":  1,
			"requester_role":  1,
			"requester_email": 1,
			"status":          1,
			"requested_at":    1,
			"resolved_at":     1,
		}}},
	}

	cur, err := db.Collection("collab_requests").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	views := []RequestView{}
	if err := cur.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}
