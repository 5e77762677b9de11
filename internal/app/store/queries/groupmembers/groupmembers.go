package groupmembers

import (
	"context"
	"time"

	"github.com/dalemusser/texthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GroupMember pairs a membership row with its resolved user document.
type GroupMember struct {
	User     models.User `bson:"user" json:"user"`
	JoinedAt time.Time   `bson:"joined_at" json:"joined_at"`
}

// ListActiveMembers returns the active members of a group with their
// user documents, in join order. Disabled users are excluded; they
// keep their membership rows but are not live recipients.
func ListActiveMembers(ctx context.Context, db *mongo.Database, groupID primitive.ObjectID) ([]GroupMember, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"group_id": groupID, "active": true}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
		bson.D{{Key: "$match", Value: bson.M{"user.status": "active"}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "joined_at", Value: 1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"user": "$user", "joined_at": 1}}},
	}

	cur, err := db.Collection("memberships").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []GroupMember
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecipientPhones returns the phone numbers of every active member of
// the group except exceptUserID. This is the fan-out recipient set.
func RecipientPhones(ctx context.Context, db *mongo.Database, groupID, exceptUserID primitive.ObjectID) ([]string, error) {
	members, err := ListActiveMembers(ctx, db, groupID)
	if err != nil {
		return nil, err
	}

	phones := make([]string, 0, len(members))
	for _, m := range members {
		if m.User.ID == exceptUserID {
			continue
		}
		phones = append(phones, m.User.Phone)
	}
	return phones, nil
}

// ActiveCounts returns the live member count per group in one
// aggregation, for annotating directory listings.
func ActiveCounts(ctx context.Context, db *mongo.Database, groupIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	result := make(map[primitive.ObjectID]int)
	if len(groupIDs) == 0 {
		return result, nil
	}

	cur, err := db.Collection("memberships").Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"group_id": bson.M{"$in": groupIDs}, "active": true}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$group_id", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int                `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = row.N
	}
	return result, cur.Err()
}
