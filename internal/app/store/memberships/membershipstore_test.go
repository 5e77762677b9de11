package membershipstore_test

import (
	"errors"
	"testing"
	"time"

	membershipstore "github.com/dalemusser/texthub/internal/app/store/memberships"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/dalemusser/texthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	m, err := store.Insert(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !m.Active {
		t.Error("expected new membership to be active")
	}
	if m.JoinedAt.IsZero() {
		t.Error("expected JoinedAt to be set")
	}
	if m.LeftAt != nil {
		t.Error("expected LeftAt to be nil")
	}
}

func TestStore_Insert_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	if _, err := store.Insert(ctx, userID, groupID); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	// The unique (user_id, group_id) index rejects the second row even
	// though the first one is still active.
	_, err := store.Insert(ctx, userID, groupID)
	if !errors.Is(err, faults.ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestStore_DeactivateAndReactivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	created, err := store.Insert(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.Deactivate(ctx, created.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	m, found, err := store.Find(ctx, userID, groupID)
	if err != nil || !found {
		t.Fatalf("Find after Deactivate: found=%v err=%v", found, err)
	}
	if m.Active {
		t.Error("expected membership to be inactive")
	}
	if m.LeftAt == nil {
		t.Error("expected LeftAt to be stamped")
	}

	re, err := store.Reactivate(ctx, created.ID)
	if err != nil {
		t.Fatalf("Reactivate failed: %v", err)
	}
	if !re.Active {
		t.Error("expected membership to be active again")
	}
	if re.LeftAt != nil {
		t.Error("expected LeftAt to be cleared")
	}
	// JoinedAt records the first join and survives the leave/rejoin
	// round trip. BSON stores millisecond precision, so compare at that
	// granularity.
	if !re.JoinedAt.Equal(created.JoinedAt.Truncate(time.Millisecond)) {
		t.Errorf("JoinedAt changed on rejoin: got %v, want %v", re.JoinedAt, created.JoinedAt)
	}
}

func TestStore_Reactivate_ActiveRowIsNoMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Reactivate filters on active:false, so a racing second reactivate
	// of an already-active row fails instead of silently succeeding.
	if _, err := store.Reactivate(ctx, created.ID); err == nil {
		t.Error("expected Reactivate of an active row to fail")
	}
}

func TestStore_IsActiveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	active, err := store.IsActiveMember(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("IsActiveMember failed: %v", err)
	}
	if active {
		t.Error("expected no membership")
	}

	m, err := store.Insert(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	active, err = store.IsActiveMember(ctx, userID, groupID)
	if err != nil || !active {
		t.Errorf("expected active membership, got active=%v err=%v", active, err)
	}

	if err := store.Deactivate(ctx, m.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	active, err = store.IsActiveMember(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("IsActiveMember failed: %v", err)
	}
	if active {
		t.Error("expected inactive membership to not count")
	}
}

func TestStore_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	groupA := primitive.NewObjectID()
	groupB := primitive.NewObjectID()

	if _, err := store.Insert(ctx, userID, groupA); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	m, err := store.Insert(ctx, userID, groupB)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Deactivate(ctx, m.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	n, err := store.CountActiveByUser(ctx, userID)
	if err != nil {
		t.Fatalf("CountActiveByUser failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountActiveByUser: got %d, want 1", n)
	}

	n, err = store.CountActiveByGroup(ctx, groupA)
	if err != nil {
		t.Fatalf("CountActiveByGroup failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountActiveByGroup: got %d, want 1", n)
	}
}

func TestStore_EarliestActiveExcept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	second := primitive.NewObjectID()
	third := primitive.NewObjectID()
	ghost := primitive.NewObjectID()

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	fx.CreateMembership(ctx, owner, groupID, true, base)
	fx.CreateMembership(ctx, second, groupID, true, base.Add(time.Minute))
	fx.CreateMembership(ctx, third, groupID, true, base.Add(2*time.Minute))
	// Inactive rows never participate in succession.
	fx.CreateMembership(ctx, ghost, groupID, false, base.Add(-time.Minute))

	m, found, err := store.EarliestActiveExcept(ctx, groupID, owner)
	if err != nil {
		t.Fatalf("EarliestActiveExcept failed: %v", err)
	}
	if !found {
		t.Fatal("expected a successor")
	}
	if m.UserID != second {
		t.Errorf("successor: got %s, want %s", m.UserID.Hex(), second.Hex())
	}

	// Sole active member: no successor.
	soloGroup := primitive.NewObjectID()
	fx.CreateMembership(ctx, owner, soloGroup, true, base)
	_, found, err = store.EarliestActiveExcept(ctx, soloGroup, owner)
	if err != nil {
		t.Fatalf("EarliestActiveExcept failed: %v", err)
	}
	if found {
		t.Error("expected no successor for a sole member")
	}
}

func TestStore_ListActiveByUser_JoinOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	groupA := primitive.NewObjectID()
	groupB := primitive.NewObjectID()
	groupC := primitive.NewObjectID()

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	fx.CreateMembership(ctx, userID, groupB, true, base.Add(time.Minute))
	fx.CreateMembership(ctx, userID, groupA, true, base)
	fx.CreateMembership(ctx, userID, groupC, false, base.Add(2*time.Minute))

	ms, err := store.ListActiveByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListActiveByUser failed: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("expected 2 active memberships, got %d", len(ms))
	}
	if ms[0].GroupID != groupA || ms[1].GroupID != groupB {
		t.Errorf("expected join order [A B], got [%s %s]", ms[0].GroupID.Hex(), ms[1].GroupID.Hex())
	}
}
