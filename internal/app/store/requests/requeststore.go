// internal/app/store/requests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sdgbridge/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrRequestNotFound  = errors.New("collaboration request not found")
	ErrDuplicateRequest = errors.New("you already requested to collaborate on this project")
	ErrOwnProject       = errors.New("you cannot request collaboration on your own project")
	ErrNotOwner         = errors.New("only the project owner can resolve its requests")
	ErrAlreadyResolved  = errors.New("this request has already been resolved")
)

// Store manages collaboration requests. Every request is its own document in
// the collab_requests collection; the unique (project_id, requester_id) index
// is what makes duplicate submissions lose cleanly under concurrency.
type Store struct {
	c        *mongo.Collection
	projects *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("collab_requests"),
		projects: db.Collection("projects"),
	}
}

// Submit records requester's offer to collaborate on the given project.
//
// The project must exist and must not belong to the requester. A second
// submission by the same requester for the same project fails with
// ErrDuplicateRequest regardless of the first request's status.
//
// The existence check and the insert are separate operations: a project
// deleted between them leaves behind a request document that the inbox
// $lookup filters out but that still holds its (project, requester) slot.
// Harmless since the project is gone and nothing can resolve the request.
func (s *Store) Submit(ctx context.Context, projectID primitive.ObjectID, requester models.User) (models.CollabRequest, error) {
	var proj models.Project
	err := s.projects.FindOne(ctx, bson.M{"_id": projectID},
		options.FindOne().SetProjection(bson.M{"owner_id": 1})).Decode(&proj)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.CollabRequest{}, ErrProjectNotFound
		}
		return models.CollabRequest{}, err
	}
	if proj.OwnerID == requester.ID {
		return models.CollabRequest{}, ErrOwnProject
	}

	req := models.CollabRequest{
		ID:             primitive.NewObjectID(),
		ProjectID:      projectID,
		RequesterID:    requester.ID,
		RequesterName:  requester.FullName,
		RequesterRole:  requester.Role,
		RequesterEmail: requester.Email,
		Status:         models.RequestPending,
		RequestedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		if wafflemongo.IsDup(err) {
			return models.CollabRequest{}, ErrDuplicateRequest
		}
		return models.CollabRequest{}, err
	}
	return req, nil
}

// Resolve moves a pending request to the given decision (accepted or
// rejected). Only the project's owner may resolve; resolving an already
// resolved request to the same decision is a no-op, to a different decision
// fails with ErrAlreadyResolved. All other requests on the project are left
// untouched.
func (s *Store) Resolve(ctx context.Context, ownerID, requestID primitive.ObjectID, decision string) error {
	if !models.ValidDecision(decision) {
		return errors.New("decision must be accepted or rejected")
	}

	var req models.CollabRequest
	err := s.c.FindOne(ctx, bson.M{"_id": requestID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrRequestNotFound
		}
		return err
	}

	var proj models.Project
	err = s.projects.FindOne(ctx, bson.M{"_id": req.ProjectID},
		options.FindOne().SetProjection(bson.M{"owner_id": 1})).Decode(&proj)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProjectNotFound
		}
		return err
	}
	if proj.OwnerID != ownerID {
		return ErrNotOwner
	}

	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": requestID, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": decision, "resolved_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// The request was not pending: either lost a race or already
		// resolved. Re-read to distinguish a repeat of the same decision
		// (idempotent) from a conflicting one.
		var cur models.CollabRequest
		if err := s.c.FindOne(ctx, bson.M{"_id": requestID}).Decode(&cur); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrRequestNotFound
			}
			return err
		}
		if cur.Status == decision {
			return nil
		}
		return ErrAlreadyResolved
	}
	return nil
}

// GetByID loads a single request.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CollabRequest, error) {
	var req models.CollabRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.CollabRequest{}, ErrRequestNotFound
		}
		return models.CollabRequest{}, err
	}
	return req, nil
}

// ForRequester returns all requests the given user has submitted, newest
// first with _id as the tiebreak so equal timestamps order stably.
func (s *Store) ForRequester(ctx context.Context, requesterID primitive.ObjectID) ([]models.CollabRequest, error) {
	return s.find(ctx, bson.M{"requester_id": requesterID})
}

// ForProject returns the requests on a single project, newest first.
func (s *Store) ForProject(ctx context.Context, projectID primitive.ObjectID) ([]models.CollabRequest, error) {
	return s.find(ctx, bson.M{"project_id": projectID})
}

// CountPendingForProjects counts unresolved requests across the given
// projects, for dashboard badges.
func (s *Store) CountPendingForProjects(ctx context.Context, projectIDs []primitive.ObjectID) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, bson.M{
		"project_id": bson.M{"$in": projectIDs},
		"status":     models.RequestPending,
	})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.CollabRequest, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "requested_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reqs []models.CollabRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
