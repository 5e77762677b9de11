// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"time"

	"github.com/dalemusser/texthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Insert appends one message with a server-side timestamp. Messages
// are immutable; there are no update or delete operations here.
func (s *Store) Insert(ctx context.Context, groupID, senderID primitive.ObjectID, content string) (models.Message, error) {
	m := models.Message{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListByGroup returns the group's messages, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	msgs := []models.Message{}
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// LatestPerGroup returns the newest message timestamp for each of the
// given groups. Groups with no messages are absent from the map. The
// inbound router uses this to pick the most recently active group.
func (s *Store) LatestPerGroup(ctx context.Context, groupIDs []primitive.ObjectID) (map[primitive.ObjectID]time.Time, error) {
	result := make(map[primitive.ObjectID]time.Time)
	if len(groupIDs) == 0 {
		return result, nil
	}

	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"group_id": bson.M{"$in": groupIDs}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    "$group_id",
			"latest": bson.M{"$max": "$created_at"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID     primitive.ObjectID `bson:"_id"`
			Latest time.Time          `bson:"latest"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = row.Latest
	}
	return result, cur.Err()
}
