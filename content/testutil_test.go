package content

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// setupTestStore connects to MONGODB_URI and returns a store on a throwaway
// database with indexes enforced. The test is skipped when no server is
// reachable.
func setupTestStore(t *testing.T) (context.Context, *inkwell.Store) {
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

	db := client.Database(fmt.Sprintf("inkwell_content_test_%d", time.Now().UnixNano()))
	store := inkwell.NewStore(db)
	if err := store.Enforce(ctx); err != nil {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
		t.Skipf("MongoDB not writable: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return ctx, store
}

type fixture struct {
	author   bson.ObjectID
	category bson.ObjectID
}

// seed creates one author and one category named "Tech".
func seed(t *testing.T, ctx context.Context, store *inkwell.Store) fixture {
	t.Helper()
	author, err := NewUsers(store).Create(ctx, UserInput{
		Email:     "Ada@Example.com",
		Password:  "secret123",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	category, err := NewCategories(store).Create(ctx, TermInput{Name: "Tech", Slug: "tech"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return fixture{author: author, category: category}
}

func (f fixture) article(title, slug string, status models.Status, tags ...string) ArticleInput {
	return ArticleInput{
		Title:      title,
		Slug:       slug,
		Excerpt:    "An excerpt for " + title,
		Content:    "Body of " + title,
		AuthorID:   f.author.Hex(),
		CategoryID: f.category.Hex(),
		Tags:       tags,
		Status:     status,
	}
}

func assertKind(t *testing.T, err error, want inkwell.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := inkwell.KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s: %v", want, got, err)
	}
}
