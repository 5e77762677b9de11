package groupdir_test

import (
	"errors"
	"testing"
	"time"

	groupdir "github.com/dalemusser/texthub/internal/app/services/directory"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/dalemusser/texthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestService_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	svc := groupdir.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Alice", "+15551230001")
	bob := fx.CreateUser(ctx, "Bob", "+15551230002")
	cara := fx.CreateUser(ctx, "Cara", "+15551230003")
	group := fx.CreateGroup(ctx, "Family", &owner.ID)

	base := time.Now().UTC().Add(-time.Hour)
	fx.CreateMembership(ctx, owner.ID, group.ID, true, base)
	fx.CreateMembership(ctx, bob.ID, group.ID, true, base.Add(time.Minute))
	// Inactive rows don't count.
	fx.CreateMembership(ctx, cara.ID, group.ID, false, base.Add(2*time.Minute))

	got, err := svc.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Family" {
		t.Errorf("name: got %q", got.Name)
	}
	if got.ActiveMembers != 2 {
		t.Errorf("active members: got %d, want 2", got.ActiveMembers)
	}

	_, err = svc.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, faults.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestService_SearchAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	svc := groupdir.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Alice", "+15551230001")
	club := fx.CreateGroup(ctx, "Book Club", &owner.ID)
	fx.CreateGroup(ctx, "Weekend Hikers", &owner.ID)
	fx.CreateMembership(ctx, owner.ID, club.ID, true, time.Now().UTC())

	results, err := svc.Search(ctx, "club", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Name != "Book Club" || results[0].ActiveMembers != 1 {
		t.Errorf("unexpected result: %+v", results[0])
	}

	all, err := svc.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(all))
	}
	// Groups with no active members report zero, not a missing entry.
	for _, g := range all {
		if g.Name == "Weekend Hikers" && g.ActiveMembers != 0 {
			t.Errorf("expected 0 active members, got %d", g.ActiveMembers)
		}
	}
}
