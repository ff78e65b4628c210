package content

import (
	"context"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/media"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// articleDoc is a stored article type: *models.Post or *models.Publication.
type articleDoc interface {
	Body() *models.Article
}

// Articles is the repository for one article collection.
type Articles struct {
	store    *inkwell.Store
	uploader media.Uploader
	noun     string
	folder   string
	newDoc   func() articleDoc
}

// CreateResult identifies a newly created article.
type CreateResult struct {
	ID   bson.ObjectID `json:"id"`
	Slug string        `json:"slug"`
}

// SearchResult is one page of search matches.
type SearchResult struct {
	Items      []models.ArticleView `json:"posts"`
	Pagination inkwell.Pagination   `json:"pagination"`
}

// NewPosts returns the repository for the posts collection. uploader may be
// nil when image uploads are disabled.
func NewPosts(store *inkwell.Store, uploader media.Uploader) *Articles {
	return &Articles{
		store:    store,
		uploader: uploader,
		noun:     "Post",
		folder:   media.FolderPosts,
		newDoc:   func() articleDoc { return &models.Post{} },
	}
}

// NewPublications returns the repository for the publications collection.
func NewPublications(store *inkwell.Store, uploader media.Uploader) *Articles {
	return &Articles{
		store:    store,
		uploader: uploader,
		noun:     "Publication",
		folder:   media.FolderPublications,
		newDoc:   func() articleDoc { return &models.Publication{} },
	}
}

// Noun is the display name of the entity, "Post" or "Publication".
func (a *Articles) Noun() string { return a.noun }

// Create validates in, uploads image when given, and inserts the article with
// zeroed counters. An upload failure aborts before anything is written.
func (a *Articles) Create(ctx context.Context, in ArticleInput, image *media.File) (CreateResult, error) {
	if err := inkwell.CheckInput(in); err != nil {
		return CreateResult{}, err
	}
	authorID, err := inkwell.ParseID(in.AuthorID)
	if err != nil {
		return CreateResult{}, err
	}
	categoryID, err := inkwell.ParseID(in.CategoryID)
	if err != nil {
		return CreateResult{}, err
	}

	// Resolve the collection before uploading so an unreachable database
	// does not leave an orphaned image behind.
	if _, _, err := a.store.Collection(a.newDoc()); err != nil {
		return CreateResult{}, err
	}

	imageURL := in.FeaturedImage
	if image != nil {
		imageURL, err = media.Upload(ctx, a.uploader, a.folder, *image)
		if err != nil {
			return CreateResult{}, err
		}
	}

	doc := a.newDoc()
	body := doc.Body()
	body.Title = in.Title
	body.Slug = in.Slug
	body.Excerpt = in.Excerpt
	body.Content = in.Content
	body.AuthorID = authorID
	body.CategoryID = categoryID
	body.Tags = in.Tags
	body.Status = in.Status
	body.FeaturedImageURL = imageURL

	id, err := a.store.Insert(ctx, doc)
	if err != nil {
		return CreateResult{}, fail(err, "Failed to create "+a.lower())
	}
	return CreateResult{ID: id, Slug: in.Slug}, nil
}

// GetByID returns the article without relations, or nil if it does not exist.
func (a *Articles) GetByID(ctx context.Context, id string) (*models.Article, error) {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return nil, err
	}
	doc := a.newDoc()
	if err := a.store.FindByID(ctx, oid, doc); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fail(err, "Failed to fetch "+a.lower())
	}
	return doc.Body(), nil
}

// GetWithRelations returns the article with its author and category, or nil if
// the article, its author or its category does not exist.
func (a *Articles) GetWithRelations(ctx context.Context, id string) (*models.ArticleView, error) {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return nil, err
	}

	var view models.ArticleView
	found, err := articleByIDPipeline(a.store.Pipeline(a.newDoc()), oid).First(ctx, &view)
	if err != nil {
		return nil, fail(err, "Failed to fetch "+a.lower())
	}
	if !found {
		return nil, nil
	}
	return &view, nil
}

// GetBySlug returns the article with the given slug, or nil. Author and category
// are filled in when they still exist.
func (a *Articles) GetBySlug(ctx context.Context, slug string) (*models.ArticleView, error) {
	doc := a.newDoc()
	if err := a.store.FindOne(ctx, bson.D{{Key: "slug", Value: slug}}, doc); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fail(err, "Failed to fetch "+a.lower())
	}

	var author models.User
	var category models.Category
	missing, err := a.store.Populate(ctx, doc, inkwell.Refs{
		"authorId":   &author,
		"categoryId": &category,
	})
	if err != nil {
		return nil, fail(err, "Failed to fetch "+a.lower())
	}

	view := &models.ArticleView{Article: *doc.Body(), Author: &author, Category: &category}
	for _, m := range missing {
		switch m {
		case "authorId":
			view.Author = nil
		case "categoryId":
			view.Category = nil
		}
	}
	return view, nil
}

// List returns every article sorted by name. Articles carry no name field, so
// the order is effectively the store's natural order; kept for compatibility
// with existing clients.
func (a *Articles) List(ctx context.Context) ([]models.Article, error) {
	var out []models.Article
	err := a.store.Pipeline(a.newDoc()).
		Sort(bson.D{{Key: "name", Value: 1}}).
		Execute(ctx, &out)
	if err != nil {
		return nil, fail(err, "Failed to fetch "+a.lower()+"s")
	}
	return out, nil
}

// ListByCategoryName returns the articles in the category with the given
// display name, newest first, each with its category.
func (a *Articles) ListByCategoryName(ctx context.Context, name string) ([]models.ArticleView, error) {
	var out []models.ArticleView
	if err := byCategoryNamePipeline(a.store.Pipeline(a.newDoc()), name).Execute(ctx, &out); err != nil {
		return nil, fail(err, "Failed to fetch "+a.lower()+"s")
	}
	return out, nil
}

// Search returns one page of published articles matching query. page below 1
// is treated as 1; limit defaults to 10 and is capped at 100. The total is
// counted independently of the page.
func (a *Articles) Search(ctx context.Context, query string, page, limit int) (SearchResult, error) {
	page, limit = inkwell.NormalizePage(page, limit)
	filter := searchFilter(query)

	var items []models.ArticleView
	if err := searchPipeline(a.store.Pipeline(a.newDoc()), filter, page, limit).Execute(ctx, &items); err != nil {
		return SearchResult{}, fail(err, "Failed to search "+a.lower()+"s")
	}

	total, err := a.store.Count(ctx, a.newDoc(), filter)
	if err != nil {
		return SearchResult{}, fail(err, "Failed to search "+a.lower()+"s")
	}

	return SearchResult{Items: items, Pagination: inkwell.NewPagination(page, limit, total)}, nil
}

// Update applies patch and refreshes updatedAt. Setting status recomputes
// publishedAt. A missing article and a patch that changed nothing are both
// reported as not found.
func (a *Articles) Update(ctx context.Context, id string, patch ArticlePatch) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	if err := inkwell.CheckInput(patch); err != nil {
		return err
	}
	set, err := patch.set(inkwell.Now())
	if err != nil {
		return err
	}

	res, err := a.store.UpdateByID(ctx, a.newDoc(), oid, set)
	if err != nil {
		return fail(err, "Failed to update "+a.lower())
	}
	if res.ModifiedCount == 0 {
		return notFound("%s not found or no changes made", a.noun)
	}
	return nil
}

// Delete removes the article. Comments on it are left in place.
func (a *Articles) Delete(ctx context.Context, id string) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	n, err := a.store.DeleteByID(ctx, a.newDoc(), oid)
	if err != nil {
		return fail(err, "Failed to delete "+a.lower())
	}
	if n == 0 {
		return notFound("%s not found", a.noun)
	}
	return nil
}

// IncrementViews atomically adds one view.
func (a *Articles) IncrementViews(ctx context.Context, id string) error {
	return a.increment(ctx, id, "views")
}

// IncrementLikes atomically adds one like.
func (a *Articles) IncrementLikes(ctx context.Context, id string) error {
	return a.increment(ctx, id, "likes")
}

func (a *Articles) increment(ctx context.Context, id, field string) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	res, err := a.store.Increment(ctx, a.newDoc(), oid, field, 1)
	if err != nil {
		return fail(err, "Failed to update "+a.lower())
	}
	if res.ModifiedCount == 0 {
		return notFound("%s not found", a.noun)
	}
	return nil
}

func (a *Articles) lower() string {
	if a.noun == "Publication" {
		return "publication"
	}
	return "post"
}
