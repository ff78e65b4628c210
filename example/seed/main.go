// Command seed fills a database with a small blog: an admin, two categories,
// a few posts and publications, and a comment thread. It drops the seeded
// collections first, so point it at a scratch database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/content"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func main() {
	ctx := context.Background()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "inkwell_seed_example"
	}

	fmt.Println("=== Connect & Enforce ===")
	store, err := inkwell.Connect(ctx, uri, dbName)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = store.Close(ctx) }()

	for _, schema := range inkwell.Sorted() {
		_ = store.DB().Collection(schema.Collection).Drop(ctx)
	}
	if err := store.Enforce(ctx); err != nil {
		log.Fatalf("enforce: %v", err)
	}
	fmt.Printf("Connected to %s\n", dbName)

	fmt.Println("\n=== Users ===")
	users := content.NewUsers(store)
	adminID, err := users.Create(ctx, content.UserInput{
		Email:     "mary@example.com",
		Password:  "changeme",
		Role:      models.RoleAdmin,
		FirstName: "Mary",
		LastName:  "Writer",
	})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	readerID, err := users.Create(ctx, content.UserInput{Email: "reader@example.com", Password: "changeme", FirstName: "Rita"})
	if err != nil {
		log.Fatalf("create reader: %v", err)
	}
	fmt.Printf("admin=%s reader=%s\n", adminID.Hex(), readerID.Hex())

	fmt.Println("\n=== Taxonomy ===")
	categories := content.NewCategories(store)
	tech, err := categories.Create(ctx, content.TermInput{Name: "Tech", Slug: "tech", Description: "Software and gadgets"})
	if err != nil {
		log.Fatalf("create category: %v", err)
	}
	life, err := categories.Create(ctx, content.TermInput{Name: "Life", Slug: "life"})
	if err != nil {
		log.Fatalf("create category: %v", err)
	}
	tags := content.NewTags(store)
	for _, name := range []string{"go", "mongodb", "travel"} {
		if _, err := tags.Create(ctx, content.TermInput{Name: name, Slug: name}); err != nil {
			log.Fatalf("create tag %s: %v", name, err)
		}
	}
	fmt.Println("Created 2 categories and 3 tags")

	fmt.Println("\n=== Articles ===")
	posts := content.NewPosts(store, nil)
	article := func(title, slug string, category bson.ObjectID, status models.Status, tags ...string) content.ArticleInput {
		return content.ArticleInput{
			Title:      title,
			Slug:       slug,
			Excerpt:    "A few words about " + title,
			Content:    "The full story of " + title + ".",
			AuthorID:   adminID.Hex(),
			CategoryID: category.Hex(),
			Tags:       tags,
			Status:     status,
		}
	}

	first, err := posts.Create(ctx, article("Hello Go", "hello-go", tech, models.StatusPublished, "go"), nil)
	if err != nil {
		log.Fatalf("create post: %v", err)
	}
	for _, in := range []content.ArticleInput{
		article("Indexes in MongoDB", "indexes-in-mongodb", tech, models.StatusPublished, "go", "mongodb"),
		article("Packing light", "packing-light", life, models.StatusDraft, "travel"),
	} {
		if _, err := posts.Create(ctx, in, nil); err != nil {
			log.Fatalf("create post %s: %v", in.Slug, err)
		}
	}
	pubs := content.NewPublications(store, nil)
	if _, err := pubs.Create(ctx, article("Annual report", "annual-report", life, models.StatusPublished), nil); err != nil {
		log.Fatalf("create publication: %v", err)
	}

	_, err = posts.Create(ctx, article("Hello again", "hello-go", tech, models.StatusDraft), nil)
	if errors.Is(err, inkwell.ErrConflict) {
		fmt.Println("Duplicate slug rejected as expected")
	} else {
		log.Fatalf("expected conflict, got %v", err)
	}

	fmt.Println("\n=== Comments ===")
	comments := content.NewComments(store)
	top, err := comments.Create(ctx, content.CommentInput{PostID: first.ID.Hex(), AuthorID: readerID.Hex(), Content: "Great intro!"})
	if err != nil {
		log.Fatalf("create comment: %v", err)
	}
	if _, err := comments.Create(ctx, content.CommentInput{
		PostID:          first.ID.Hex(),
		AuthorID:        adminID.Hex(),
		Content:         "Thanks for reading.",
		ParentCommentID: top.Hex(),
	}); err != nil {
		log.Fatalf("create reply: %v", err)
	}
	thread, err := comments.ListByPost(ctx, first.ID.Hex())
	if err != nil {
		log.Fatalf("list comments: %v", err)
	}
	for _, c := range thread {
		fmt.Printf("  %s: %s (%d repl(ies))\n", c.Author.FullName(), c.Content, len(c.Replies))
	}

	fmt.Println("\n=== Search ===")
	res, err := posts.Search(ctx, "go", 1, 10)
	if err != nil {
		log.Fatalf("search: %v", err)
	}
	fmt.Printf("%d published post(s) match \"go\"\n", res.Pagination.Total)

	fmt.Println("\n=== Recount ===")
	counts, err := content.Recount(ctx, store)
	if err != nil {
		log.Fatalf("recount: %v", err)
	}
	fmt.Printf("Updated %d categor(ies) and %d tag(s)\n", counts.Categories, counts.Tags)

	fmt.Println("\n=== Done ===")
}
