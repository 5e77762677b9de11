// internal/app/system/indexes/indexes.go

// Package indexes creates the collection indexes the ledger's
// invariants depend on. The unique (user_id, group_id) index on
// memberships is load-bearing: it is what turns a racing duplicate
// join into a conflict instead of a duplicate row.
package indexes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensure creates all indexes. Creation is idempotent; existing
// matching indexes are left alone.
func Ensure(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
		},
		"groups": {
			{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		"memberships": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "active", Value: 1}}},
			{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "active", Value: 1}}},
		},
		"messages": {
			{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
