package content

import (
	"context"
	"strings"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type termDoc interface {
	Body() *models.Term
}

// Taxonomy is the repository for categories or tags.
type Taxonomy struct {
	store  *inkwell.Store
	noun   string
	newDoc func() termDoc
}

// NewCategories returns the categories repository.
func NewCategories(store *inkwell.Store) *Taxonomy {
	return &Taxonomy{store: store, noun: "Category", newDoc: func() termDoc { return &models.Category{} }}
}

// NewTags returns the tags repository.
func NewTags(store *inkwell.Store) *Taxonomy {
	return &Taxonomy{store: store, noun: "Tag", newDoc: func() termDoc { return &models.Tag{} }}
}

// Noun is the display name of the entity, "Category" or "Tag".
func (t *Taxonomy) Noun() string { return t.noun }

// Create inserts a term with a zero post count.
func (t *Taxonomy) Create(ctx context.Context, in TermInput) (bson.ObjectID, error) {
	if err := inkwell.CheckInput(in); err != nil {
		return bson.NilObjectID, err
	}

	doc := t.newDoc()
	body := doc.Body()
	body.Name = strings.TrimSpace(in.Name)
	body.Slug = strings.TrimSpace(in.Slug)
	body.Description = in.Description

	id, err := t.store.Insert(ctx, doc)
	if err != nil {
		return bson.NilObjectID, fail(err, "Failed to create "+t.lower())
	}
	return id, nil
}

// GetByID returns the term, or nil if it does not exist.
func (t *Taxonomy) GetByID(ctx context.Context, id string) (*models.Term, error) {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return nil, err
	}
	return t.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// GetBySlug returns the term with the given slug, or nil.
func (t *Taxonomy) GetBySlug(ctx context.Context, slug string) (*models.Term, error) {
	return t.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

func (t *Taxonomy) findOne(ctx context.Context, filter bson.D) (*models.Term, error) {
	doc := t.newDoc()
	if err := t.store.FindOne(ctx, filter, doc); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fail(err, "Failed to fetch "+t.lower())
	}
	return doc.Body(), nil
}

// List returns every term sorted by name.
func (t *Taxonomy) List(ctx context.Context) ([]models.Term, error) {
	var out []models.Term
	err := t.store.Pipeline(t.newDoc()).
		Sort(bson.D{{Key: "name", Value: 1}}).
		Execute(ctx, &out)
	if err != nil {
		return nil, fail(err, "Failed to fetch "+t.plural())
	}
	return out, nil
}

// Update replaces name, slug and description. Articles filtered by category
// name stop matching the old name.
func (t *Taxonomy) Update(ctx context.Context, id string, in TermInput) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	if err := inkwell.CheckInput(in); err != nil {
		return err
	}

	res, err := t.store.UpdateByID(ctx, t.newDoc(), oid, in.set())
	if err != nil {
		return fail(err, "Failed to update "+t.lower())
	}
	if res.ModifiedCount == 0 {
		return notFound("No changes made or %s not found", t.lower())
	}
	return nil
}

// Delete removes the term. Articles that reference it keep the dangling
// reference.
func (t *Taxonomy) Delete(ctx context.Context, id string) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	n, err := t.store.DeleteByID(ctx, t.newDoc(), oid)
	if err != nil {
		return fail(err, "Failed to delete "+t.lower())
	}
	if n == 0 {
		return notFound("%s not found", t.noun)
	}
	return nil
}

func (t *Taxonomy) lower() string { return strings.ToLower(t.noun) }

func (t *Taxonomy) plural() string {
	if t.noun == "Category" {
		return "categories"
	}
	return "tags"
}
