// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/dalemusser/texthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create registers a user with a bcrypt-hashed password. The phone is
// stored trimmed but otherwise as given; it must be unique.
func (s *Store) Create(ctx context.Context, name, phone, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(name),
		NameCI:       text.Fold(name),
		Phone:        strings.TrimSpace(phone),
		PasswordHash: string(hash),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, faults.ErrDuplicatePhone
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, faults.ErrUserNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByPhone resolves the inbound transport identifier to a user.
// Returns faults.ErrUserNotFound for unknown numbers so the webhook
// can answer with its "not registered" text.
func (s *Store) GetByPhone(ctx context.Context, phone string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"phone": strings.TrimSpace(phone)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, faults.ErrUserNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate verifies phone + password. Lookup misses and password
// mismatches both return faults.ErrInvalidCredentials so callers can't
// distinguish which part failed.
func (s *Store) Authenticate(ctx context.Context, phone, password string) (models.User, error) {
	u, err := s.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, faults.ErrUserNotFound) {
			return models.User{}, faults.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if u.Status != "active" {
		return models.User{}, faults.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, faults.ErrInvalidCredentials
	}
	return u, nil
}
