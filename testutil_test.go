package inkwell

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// --- test models ---

type testAuthor struct {
	Model `bson:",inline"`
	Email string `bson:"email" store:"unique,required"`
	Name  string `bson:"name"  store:"required,immutable"`
	Role  string `bson:"role"  store:"enum=Admin|User|Guest,default=Guest"`
}

type testNote struct {
	Model    `bson:",inline"`
	Title    string        `bson:"title"    store:"required,min=3,max=40"`
	Slug     string        `bson:"slug"     store:"unique"`
	Status   string        `bson:"status"   store:"enum=draft|published,default=draft"`
	Views    int           `bson:"views"    store:"min=0"`
	Pinned   *bool         `bson:"pinned"   store:"default=false"`
	AuthorID bson.ObjectID `bson:"authorId" store:"ref=test_authors"`
}

func (n *testNote) Indexes() []CompoundIndex {
	return []CompoundIndex{NewCompoundIndex("status", "createdAt").Desc("createdAt")}
}

// testSluggedNote derives its slug in BeforeCreate, the way articles do.
type testSluggedNote struct {
	Model `bson:",inline"`
	Title string `bson:"title" store:"required"`
	Slug  string `bson:"slug"  store:"required"`
}

func (n *testSluggedNote) BeforeCreate(ctx context.Context) error {
	if n.Slug == "" {
		n.Slug = strings.ToLower(strings.ReplaceAll(n.Title, " ", "-"))
	}
	return nil
}

var testModelNames = []string{"testAuthor", "testNote", "testSluggedNote"}

func registerTestModels() {
	unregisterTestModels()
	_ = Register(&testAuthor{}, "test_authors")
	_ = Register(&testNote{}, "test_notes")
	_ = Register(&testSluggedNote{}, "test_slugged_notes")
}

func unregisterTestModels() {
	registryMu.Lock()
	for _, name := range testModelNames {
		delete(registry, name)
	}
	registryMu.Unlock()
}

func intPtr(n int) *int { return &n }

// --- test DB setup ---

// setupTestStore returns a store on a throwaway database. Tests are skipped
// unless MONGODB_URI points at a writable server.
func setupTestStore(t *testing.T) (context.Context, *Store, func()) {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	dbName := fmt.Sprintf("inkwell_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)

	check := db.Collection("_inkwell_auth_check")
	if _, err := check.InsertOne(ctx, bson.D{{Key: "test", Value: true}}); err != nil {
		_ = db.Drop(ctx)
		t.Skipf("MongoDB not writable (auth required?): %v", err)
	}
	_ = check.Drop(ctx)

	registerTestModels()
	store := NewStore(db)

	cleanup := func() {
		_ = db.Drop(ctx)
		unregisterTestModels()
		_ = store.Close(ctx)
	}

	return ctx, store, cleanup
}
