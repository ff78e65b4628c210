package content

import (
	"testing"

	"github.com/dwoolworth/inkwell/models"
)

func TestRecount(t *testing.T) {
	ctx, store := setupTestStore(t)
	f := seed(t, ctx, store)
	tags := NewTags(store)
	categories := NewCategories(store)

	empty, _ := categories.Create(ctx, TermInput{Name: "Empty", Slug: "empty"})
	goTag, _ := tags.Create(ctx, TermInput{Name: "go", Slug: "go"})

	_, _ = NewPosts(store, nil).Create(ctx, f.article("One", "one", models.StatusPublished, "go"), nil)
	_, _ = NewPosts(store, nil).Create(ctx, f.article("Two", "two", models.StatusDraft, "go", "misc"), nil)
	_, _ = NewPublications(store, nil).Create(ctx, f.article("Three", "three", models.StatusPublished), nil)

	res, err := Recount(ctx, store)
	if err != nil {
		t.Fatalf("Recount failed: %v", err)
	}
	if res.Categories != 1 || res.Tags != 1 {
		t.Fatalf("expected 1 category and 1 tag updated, got %+v", res)
	}

	tech, _ := categories.GetByID(ctx, f.category.Hex())
	if tech.PostCount != 3 {
		t.Fatalf("expected Tech count 3, got %d", tech.PostCount)
	}
	e, _ := categories.GetByID(ctx, empty.Hex())
	if e.PostCount != 0 {
		t.Fatalf("expected Empty count 0, got %d", e.PostCount)
	}
	g, _ := tags.GetByID(ctx, goTag.Hex())
	if g.PostCount != 2 {
		t.Fatalf("expected go count 2, got %d", g.PostCount)
	}
}
