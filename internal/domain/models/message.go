// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxMessageLength bounds message content when no limit is
// configured. It matches the SMS gateway's maximum concatenated body.
const DefaultMaxMessageLength = 1600

// Message is one persisted group message. Documents are append-only:
// never updated, never deleted, owned by their group.
type Message struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	SenderID primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Content  string             `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
