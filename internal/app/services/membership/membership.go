// internal/app/services/membership/membership.go

// Package membershipsvc owns every mutation of the membership ledger:
// join, leave, ownership transfer, and group creation (which is a
// create plus the creator's join). Each operation runs as one atomic
// unit via txn.WithTransaction so concurrent callers never observe a
// half-applied state: in particular, owner succession on leave commits
// together with the member's deactivation.
package membershipsvc

import (
	"context"

	groupstore "github.com/dalemusser/texthub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/texthub/internal/app/store/memberships"
	"github.com/dalemusser/texthub/internal/app/system/txn"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/dalemusser/texthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultCap is the default maximum of concurrently-active
// memberships per user, enforced at join time only.
const DefaultCap = 10

type Service struct {
	db          *mongo.Database
	groups      *groupstore.Store
	memberships *membershipstore.Store
	cap         int
	log         *zap.Logger
}

// New builds the service around an explicit database handle. cap <= 0
// selects DefaultCap.
func New(db *mongo.Database, cap int, logger *zap.Logger) *Service {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &Service{
		db:          db,
		groups:      groupstore.New(db),
		memberships: membershipstore.New(db),
		cap:         cap,
		log:         logger,
	}
}

// Join makes userID an active member of groupID.
//
// An active row fails with faults.ErrAlreadyMember. An inactive row is
// reactivated in place, bypassing the cap: re-joining restores access
// without growing the user's historical group count, and joined_at is
// preserved. Otherwise the cap is checked and a fresh row inserted.
//
// The existence check, cap check, and write run as one transaction,
// serialized per (user, group) by the unique index: a racing duplicate
// insert surfaces as ErrAlreadyMember, never as a storage error.
// Concurrent joins by one user to *different* groups race only on the
// cap count and may overshoot the cap by at most the burst degree;
// that bounded relaxation is accepted rather than taking a per-user
// lock.
func (s *Service) Join(ctx context.Context, userID, groupID primitive.ObjectID) (models.Membership, error) {
	var out models.Membership
	err := txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		if _, err := s.groups.GetByID(ctx, groupID); err != nil {
			return err
		}

		m, found, err := s.memberships.Find(ctx, userID, groupID)
		if err != nil {
			return err
		}
		if found {
			if m.Active {
				return faults.ErrAlreadyMember
			}
			out, err = s.memberships.Reactivate(ctx, m.ID)
			return err
		}

		n, err := s.memberships.CountActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if n >= int64(s.cap) {
			return faults.ErrMembershipLimit
		}

		out, err = s.memberships.Insert(ctx, userID, groupID)
		return err
	})
	if err != nil {
		return models.Membership{}, err
	}
	return out, nil
}

// Leave deactivates userID's membership in groupID. When the leaver
// owns the group, ownership moves to the earliest-joined other active
// member (ties by membership id), or to nobody when none remains; the
// owner update and the deactivation commit together so no reader sees
// an owned group without its owner among the active members.
func (s *Service) Leave(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		m, found, err := s.memberships.Find(ctx, userID, groupID)
		if err != nil {
			return err
		}
		if !found || !m.Active {
			return faults.ErrNotAMember
		}

		g, err := s.groups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if g.OwnerID != nil && *g.OwnerID == userID {
			next, ok, err := s.memberships.EarliestActiveExcept(ctx, groupID, userID)
			if err != nil {
				return err
			}
			var successor *primitive.ObjectID
			if ok {
				successor = &next.UserID
			}
			if err := s.groups.SetOwner(ctx, groupID, successor); err != nil {
				return err
			}
			if ok {
				s.log.Info("group ownership passed on leave",
					zap.String("group_id", groupID.Hex()),
					zap.String("new_owner_id", next.UserID.Hex()))
			}
		}

		return s.memberships.Deactivate(ctx, m.ID)
	})
}

// TransferOwnership reassigns the group owner. Only the current owner
// may transfer, and only to an active member. Transferring to the
// current owner again succeeds with no effect.
func (s *Service) TransferOwnership(ctx context.Context, requesterID, groupID, newOwnerID primitive.ObjectID) (models.Group, error) {
	var out models.Group
	err := txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		g, err := s.groups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if g.OwnerID == nil || *g.OwnerID != requesterID {
			return faults.ErrNotOwner
		}

		active, err := s.memberships.IsActiveMember(ctx, newOwnerID, groupID)
		if err != nil {
			return err
		}
		if !active {
			return faults.ErrTargetNotMember
		}

		if err := s.groups.SetOwner(ctx, groupID, &newOwnerID); err != nil {
			return err
		}
		g.OwnerID = &newOwnerID
		out = g
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}
	return out, nil
}

// IsActiveMember reports whether userID currently belongs to groupID.
func (s *Service) IsActiveMember(ctx context.Context, userID, groupID primitive.ObjectID) (bool, error) {
	return s.memberships.IsActiveMember(ctx, userID, groupID)
}

// CreateGroup creates a group and joins the creator as its first
// active member and owner, as one unit. The creator's membership cap
// applies; hitting it aborts the creation.
func (s *Service) CreateGroup(ctx context.Context, name string, creatorID primitive.ObjectID) (models.Group, error) {
	var out models.Group
	err := txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		n, err := s.memberships.CountActiveByUser(ctx, creatorID)
		if err != nil {
			return err
		}
		if n >= int64(s.cap) {
			return faults.ErrMembershipLimit
		}

		g, err := s.groups.Create(ctx, name, creatorID)
		if err != nil {
			return err
		}
		if _, err := s.memberships.Insert(ctx, creatorID, g.ID); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}
	return out, nil
}
