package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/texthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

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

// CreateUser creates an active test user. The password hash is a
// placeholder; use the user store directly in tests that exercise
// authentication.
func (f *Fixtures) CreateUser(ctx context.Context, name, phone string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Phone:        phone,
		PasswordHash: "x",
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, name, phone string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, name, phone)
	_, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		bson.M{"$set": bson.M{"status": "disabled"}})
	if err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	u.Status = "disabled"
	return u
}

// CreateGroup creates a test group owned by ownerID. Pass nil for an
// ownerless group.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, ownerID *primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateMembership inserts a membership row directly, with an explicit
// joined_at so tests can control succession and routing order.
func (f *Fixtures) CreateMembership(ctx context.Context, userID, groupID primitive.ObjectID, active bool, joinedAt time.Time) models.Membership {
	f.t.Helper()

	m := models.Membership{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		GroupID:  groupID,
		Active:   active,
		JoinedAt: joinedAt.UTC(),
	}
	if !active {
		leftAt := joinedAt.UTC().Add(time.Minute)
		m.LeftAt = &leftAt
	}

	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateMessage inserts a message with an explicit created_at so tests
// can control recency ordering.
func (f *Fixtures) CreateMessage(ctx context.Context, groupID, senderID primitive.ObjectID, content string, at time.Time) models.Message {
	f.t.Helper()

	msg := models.Message{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: at.UTC(),
	}

	if _, err := f.db.Collection("messages").InsertOne(ctx, msg); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return msg
}
