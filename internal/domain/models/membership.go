// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership is the authoritative join between users and groups.
// Exactly one document per (user_id, group_id), enforced by a unique
// index. Rows are never deleted: leaving flips Active off and stamps
// LeftAt; re-joining flips Active back on and clears LeftAt. JoinedAt
// records the first join and is never reset.
type Membership struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	Active  bool               `bson:"active" json:"active"`

	JoinedAt time.Time  `bson:"joined_at" json:"joined_at"`
	LeftAt   *time.Time `bson:"left_at" json:"left_at,omitempty"`
}
