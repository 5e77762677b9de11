// internal/app/services/directory/directory.go

// Package groupdir is the read side of the group catalog: fetch,
// search, and listing, each annotated with a live active-member count.
// It performs no mutation; counts are computed inside the request that
// needs them, never cached across membership changes.
package groupdir

import (
	"context"

	groupstore "github.com/dalemusser/texthub/internal/app/store/groups"
	"github.com/dalemusser/texthub/internal/app/store/queries/groupmembers"
	"github.com/dalemusser/texthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultLimit bounds search results and listing pages when the
// caller does not say otherwise.
const DefaultLimit = 20

// GroupSummary is a group plus its live active-member count.
type GroupSummary struct {
	models.Group
	ActiveMembers int `json:"active_members"`
}

type Service struct {
	db     *mongo.Database
	groups *groupstore.Store
}

func New(db *mongo.Database) *Service {
	return &Service{db: db, groups: groupstore.New(db)}
}

// GetByID fetches one group or faults.ErrGroupNotFound.
func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (GroupSummary, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return GroupSummary{}, err
	}
	annotated, err := s.annotate(ctx, []models.Group{g})
	if err != nil {
		return GroupSummary{}, err
	}
	return annotated[0], nil
}

// Search finds groups by case-insensitive name substring. A blank or
// whitespace-only query yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, query string, limit int64) ([]GroupSummary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	gs, err := s.groups.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, gs)
}

// List pages through all groups, newest first.
func (s *Service) List(ctx context.Context, limit, offset int64) ([]GroupSummary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	gs, err := s.groups.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, gs)
}

func (s *Service) annotate(ctx context.Context, gs []models.Group) ([]GroupSummary, error) {
	ids := make([]primitive.ObjectID, len(gs))
	for i, g := range gs {
		ids[i] = g.ID
	}
	counts, err := groupmembers.ActiveCounts(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]GroupSummary, len(gs))
	for i, g := range gs {
		out[i] = GroupSummary{Group: g, ActiveMembers: counts[g.ID]}
	}
	return out, nil
}
