// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a named message group.
//
// NOTE:
//   - Member lists are not embedded on Group. All membership is stored
//     in the memberships collection, one row per (user, group) ever.
//   - OwnerID is nullable: a group whose last active member left has no
//     owner until someone joins again. While any active membership
//     exists, OwnerID must point at an active member.
type Group struct {
	ID      primitive.ObjectID  `bson:"_id" json:"id"`
	Name    string              `bson:"name" json:"name"`
	NameCI  string              `bson:"name_ci" json:"-"`
	OwnerID *primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
