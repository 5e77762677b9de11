package groupstore_test

import (
	"errors"
	"testing"

	groupstore "github.com/dalemusser/texthub/internal/app/store/groups"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/dalemusser/texthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ownerID := primitive.NewObjectID()
	g, err := store.Create(ctx, "  Family  ", ownerID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.Name != "Family" {
		t.Errorf("expected trimmed name, got %q", g.Name)
	}
	if g.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if g.OwnerID == nil || *g.OwnerID != ownerID {
		t.Error("expected owner to be set")
	}
	if g.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_DuplicateNameCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "Book Club", primitive.NewObjectID()); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, "BOOK CLUB", primitive.NewObjectID())
	if !errors.Is(err, faults.ErrDuplicateGroupName) {
		t.Errorf("expected ErrDuplicateGroupName, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, faults.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestStore_SetOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.Create(ctx, "Hiking", primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newOwner := primitive.NewObjectID()
	if err := store.SetOwner(ctx, g.ID, &newOwner); err != nil {
		t.Fatalf("SetOwner failed: %v", err)
	}
	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.OwnerID == nil || *got.OwnerID != newOwner {
		t.Error("expected new owner to be persisted")
	}

	// Clearing the owner leaves an ownerless group.
	if err := store.SetOwner(ctx, g.ID, nil); err != nil {
		t.Fatalf("SetOwner(nil) failed: %v", err)
	}
	got, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.OwnerID != nil {
		t.Errorf("expected nil owner, got %s", got.OwnerID.Hex())
	}

	if err := store.SetOwner(ctx, primitive.NewObjectID(), &newOwner); !errors.Is(err, faults.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound for missing group, got %v", err)
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	for _, name := range []string{"Weekend Hikers", "Book Club", "Chess Club"} {
		if _, err := store.Create(ctx, name, owner); err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
	}

	got, err := store.Search(ctx, "CLUB", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	// Results sort by folded name.
	if got[0].Name != "Book Club" || got[1].Name != "Chess Club" {
		t.Errorf("unexpected order: %q, %q", got[0].Name, got[1].Name)
	}

	// A blank query returns nothing, not everything.
	got, err = store.Search(ctx, "   ", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results for blank query, got %d", len(got))
	}

	// Regex metacharacters are literals.
	got, err = store.Search(ctx, "c.*b", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results for metacharacter query, got %d", len(got))
	}
}

func TestStore_List_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := store.Create(ctx, name, owner); err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
	}

	got, err := store.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Name != "Third" {
		t.Errorf("expected newest group first, got %q", got[0].Name)
	}

	got, err = store.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "First" {
		t.Errorf("expected offset to page to the oldest group, got %v", got)
	}
}
