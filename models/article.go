package models

import (
	"context"
	"time"

	"github.com/dwoolworth/inkwell"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Status is the editorial state of a post or publication. Any of the three
// values may follow any other; there is no transition table.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Article is the document body shared by posts and publications.
type Article struct {
	inkwell.Model    `bson:",inline"`
	Title            string          `bson:"title"                      json:"title"                      store:"required,min=3"`
	Slug             string          `bson:"slug"                       json:"slug"                       store:"required,unique"`
	Excerpt          string          `bson:"excerpt"                    json:"excerpt"`
	Content          string          `bson:"content"                    json:"content"`
	AuthorID         bson.ObjectID   `bson:"authorId"                   json:"authorId"                   store:"required,index,ref=users"`
	CategoryID       bson.ObjectID   `bson:"categoryId"                 json:"categoryId"                 store:"required,index,ref=categories"`
	Tags             []string        `bson:"tags"                       json:"tags"                       store:"index"`
	Status           Status          `bson:"status"                     json:"status"                     store:"enum=draft|published|archived,default=draft"`
	FeaturedImageURL string          `bson:"featuredImageUrl,omitempty" json:"featuredImageUrl,omitempty"`
	Views            int             `bson:"views"                      json:"views"                      store:"min=0"`
	Likes            int             `bson:"likes"                      json:"likes"                      store:"min=0"`
	PublishedAt      *time.Time      `bson:"publishedAt"                json:"publishedAt"`
	Comments         []bson.ObjectID `bson:"comments"                   json:"comments"`
}

// Indexes backs the published-newest-first listings and search.
func (a *Article) Indexes() []inkwell.CompoundIndex {
	return []inkwell.CompoundIndex{
		inkwell.NewCompoundIndex("status", "createdAt").Desc("createdAt"),
	}
}

// BeforeCreate stamps publishedAt for articles created as published and seeds
// the empty collections so they are stored as arrays rather than null.
func (a *Article) BeforeCreate(ctx context.Context) error {
	if a.Status == StatusPublished && a.PublishedAt == nil {
		ts := a.CreatedAt
		a.PublishedAt = &ts
	}
	if a.Status != StatusPublished {
		a.PublishedAt = nil
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Comments == nil {
		a.Comments = []bson.ObjectID{}
	}
	return nil
}

// Body returns the shared article fields of a Post or Publication.
func (a *Article) Body() *Article { return a }

// Post is an article stored in the posts collection.
type Post struct {
	Article `bson:",inline"`
}

// Publication is an article stored in the publications collection.
type Publication struct {
	Article `bson:",inline"`
}

// ArticleView is an article with its author and category joined in.
// Author and Category are nil when the view was built by a left join and the
// referenced document is gone.
type ArticleView struct {
	Article  `bson:",inline"`
	Author   *User     `bson:"author,omitempty"   json:"author"`
	Category *Category `bson:"category,omitempty" json:"category"`
}

func init() {
	inkwell.MustRegister(&Post{}, "posts")
	inkwell.MustRegister(&Publication{}, "publications")
}
