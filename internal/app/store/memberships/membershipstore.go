// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/dalemusser/texthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

// Find returns the single membership row for (userID, groupID),
// active or not. found is false when the pair has never joined.
func (s *Store) Find(ctx context.Context, userID, groupID primitive.ObjectID) (m models.Membership, found bool, err error) {
	err = s.c.FindOne(ctx, bson.M{"user_id": userID, "group_id": groupID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Membership{}, false, nil
	}
	if err != nil {
		return models.Membership{}, false, err
	}
	return m, true, nil
}

// Insert creates the first membership row for (userID, groupID).
// A duplicate insert, including one that lost a race, comes back as
// faults.ErrAlreadyMember; the unique index is the last line of
// defense against concurrent joins.
func (s *Store) Insert(ctx context.Context, userID, groupID primitive.ObjectID) (models.Membership, error) {
	m := models.Membership{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		GroupID:  groupID,
		Active:   true,
		JoinedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, faults.ErrAlreadyMember
		}
		return models.Membership{}, err
	}
	return m, nil
}

// Reactivate flips an inactive row back to active and clears left_at.
// joined_at is deliberately untouched: re-joining restores access, it
// does not restart the member's history. The filter requires
// active=false so a racing reactivation can only succeed once.
func (s *Store) Reactivate(ctx context.Context, id primitive.ObjectID) (models.Membership, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Membership
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "active": false},
		bson.M{"$set": bson.M{"active": true, "left_at": nil}},
		opts,
	).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Membership{}, faults.ErrAlreadyMember
	}
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// Deactivate marks a row inactive and stamps left_at.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"active":  false,
		"left_at": &now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return faults.ErrNotAMember
	}
	return nil
}

// IsActiveMember reports whether userID holds an active membership in
// groupID.
func (s *Store) IsActiveMember(ctx context.Context, userID, groupID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"user_id":  userID,
		"group_id": groupID,
		"active":   true,
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountActiveByUser returns how many groups the user is currently in.
// This feeds the join-time cap check.
func (s *Store) CountActiveByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "active": true})
}

// CountActiveByGroup returns the live member count for a group.
func (s *Store) CountActiveByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "active": true})
}

// ListActiveByUser returns the user's active memberships in join
// order (earliest first, ties by row id).
func (s *Store) ListActiveByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID, "active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Membership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveByGroup returns the group's active memberships in join
// order.
func (s *Store) ListActiveByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID, "active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Membership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EarliestActiveExcept returns the earliest-joined active member of
// the group other than exceptUserID, for owner succession. Ties break
// on membership id ascending. found is false when no such member
// exists.
func (s *Store) EarliestActiveExcept(ctx context.Context, groupID, exceptUserID primitive.ObjectID) (m models.Membership, found bool, err error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}})
	err = s.c.FindOne(ctx, bson.M{
		"group_id": groupID,
		"active":   true,
		"user_id":  bson.M{"$ne": exceptUserID},
	}, opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Membership{}, false, nil
	}
	if err != nil {
		return models.Membership{}, false, err
	}
	return m, true, nil
}
