package messagestore_test

import (
	"testing"
	"time"

	messagestore "github.com/dalemusser/texthub/internal/app/store/messages"
	"github.com/dalemusser/texthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	senderID := primitive.NewObjectID()

	msg, err := store.Insert(ctx, groupID, senderID, "dinner at 6")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if msg.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if msg.Content != "dinner at 6" {
		t.Errorf("content: got %q", msg.Content)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_ListByGroup_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	otherGroup := primitive.NewObjectID()
	sender := primitive.NewObjectID()

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	fx.CreateMessage(ctx, groupID, sender, "first", base)
	fx.CreateMessage(ctx, groupID, sender, "second", base.Add(time.Minute))
	fx.CreateMessage(ctx, groupID, sender, "third", base.Add(2*time.Minute))
	fx.CreateMessage(ctx, otherGroup, sender, "elsewhere", base.Add(3*time.Minute))

	msgs, err := store.ListByGroup(ctx, groupID, 2)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "third" || msgs[1].Content != "second" {
		t.Errorf("expected newest first, got %q then %q", msgs[0].Content, msgs[1].Content)
	}
}

func TestStore_LatestPerGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupA := primitive.NewObjectID()
	groupB := primitive.NewObjectID()
	silent := primitive.NewObjectID()
	sender := primitive.NewObjectID()

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	fx.CreateMessage(ctx, groupA, sender, "old", base)
	fx.CreateMessage(ctx, groupA, sender, "new", base.Add(10*time.Minute))
	fx.CreateMessage(ctx, groupB, sender, "only", base.Add(5*time.Minute))

	latest, err := store.LatestPerGroup(ctx, []primitive.ObjectID{groupA, groupB, silent})
	if err != nil {
		t.Fatalf("LatestPerGroup failed: %v", err)
	}

	if got := latest[groupA]; !got.Equal(base.Add(10 * time.Minute)) {
		t.Errorf("groupA latest: got %v, want %v", got, base.Add(10*time.Minute))
	}
	if got := latest[groupB]; !got.Equal(base.Add(5 * time.Minute)) {
		t.Errorf("groupB latest: got %v, want %v", got, base.Add(5*time.Minute))
	}
	// Groups with no messages are absent, not zero-valued.
	if _, ok := latest[silent]; ok {
		t.Error("expected silent group to be absent from the result")
	}
}
