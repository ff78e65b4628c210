package content

import (
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ArticleInput is the create request for a post or publication.
type ArticleInput struct {
	Title         string        `json:"title"         validate:"required,min=3"`
	Slug          string        `json:"slug"          validate:"required,min=3"`
	Excerpt       string        `json:"excerpt"       validate:"required,min=3"`
	Content       string        `json:"content"       validate:"required,min=3"`
	AuthorID      string        `json:"authorId"      validate:"required,mongodb"`
	CategoryID    string        `json:"categoryId"    validate:"required,mongodb"`
	Tags          []string      `json:"tags"`
	Status        models.Status `json:"status"        validate:"required,oneof=draft published archived"`
	FeaturedImage string        `json:"featuredImage" validate:"omitempty,url"`
}

// ArticlePatch is a partial update; nil fields are left untouched.
type ArticlePatch struct {
	Title            *string        `json:"title"            validate:"omitempty,min=3"`
	Slug             *string        `json:"slug"             validate:"omitempty,min=3"`
	Excerpt          *string        `json:"excerpt"          validate:"omitempty,min=3"`
	Content          *string        `json:"content"          validate:"omitempty,min=3"`
	AuthorID         *string        `json:"authorId"         validate:"omitempty,mongodb"`
	CategoryID       *string        `json:"categoryId"       validate:"omitempty,mongodb"`
	Tags             *[]string      `json:"tags"`
	Status           *models.Status `json:"status"           validate:"omitempty,oneof=draft published archived"`
	FeaturedImageURL *string        `json:"featuredImageUrl" validate:"omitempty,url"`
	Views            *int           `json:"views"            validate:"omitempty,min=0"`
	Likes            *int           `json:"likes"            validate:"omitempty,min=0"`
}

// set renders the patch as a $set document. When the patch sets status,
// publishedAt becomes at for published and null for anything else.
func (p ArticlePatch) set(at time.Time) (bson.D, error) {
	var d bson.D
	add := func(key string, v interface{}) { d = append(d, bson.E{Key: key, Value: v}) }

	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Slug != nil {
		add("slug", *p.Slug)
	}
	if p.Excerpt != nil {
		add("excerpt", *p.Excerpt)
	}
	if p.Content != nil {
		add("content", *p.Content)
	}
	if p.AuthorID != nil {
		id, err := inkwell.ParseID(*p.AuthorID)
		if err != nil {
			return nil, err
		}
		add("authorId", id)
	}
	if p.CategoryID != nil {
		id, err := inkwell.ParseID(*p.CategoryID)
		if err != nil {
			return nil, err
		}
		add("categoryId", id)
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		add("tags", tags)
	}
	if p.FeaturedImageURL != nil {
		add("featuredImageUrl", *p.FeaturedImageURL)
	}
	if p.Views != nil {
		add("views", *p.Views)
	}
	if p.Likes != nil {
		add("likes", *p.Likes)
	}
	if p.Status != nil {
		add("status", *p.Status)
		if *p.Status == models.StatusPublished {
			add("publishedAt", at)
		} else {
			add("publishedAt", nil)
		}
	}
	return d, nil
}

// TermInput is the create and replace request for categories and tags.
type TermInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=50"`
	Slug        string `json:"slug"        validate:"required,min=2,max=50"`
	Description string `json:"description"`
}

func (in TermInput) set() bson.D {
	return bson.D{
		{Key: "name", Value: in.Name},
		{Key: "slug", Value: in.Slug},
		{Key: "description", Value: in.Description},
	}
}

// CommentInput is a new comment. ParentCommentID is empty for top-level comments.
type CommentInput struct {
	PostID          string `json:"postId"          validate:"required,mongodb"`
	AuthorID        string `json:"authorId"        validate:"required,mongodb"`
	Content         string `json:"content"         validate:"required,max=5000"`
	ParentCommentID string `json:"parentCommentId" validate:"omitempty,mongodb"`
}

// CommentPatch edits or moderates a comment.
type CommentPatch struct {
	Content    *string `json:"content"    validate:"omitempty,min=1,max=5000"`
	IsApproved *bool   `json:"isApproved"`
}

func (p CommentPatch) set() bson.D {
	var d bson.D
	if p.Content != nil {
		d = append(d, bson.E{Key: "content", Value: *p.Content})
	}
	if p.IsApproved != nil {
		d = append(d, bson.E{Key: "isApproved", Value: *p.IsApproved})
	}
	return d
}

// UserInput creates an account from the admin dashboard.
type UserInput struct {
	Email       string      `json:"email"        validate:"required,email"`
	Password    string      `json:"password"     validate:"omitempty,min=6,max=72"`
	Role        models.Role `json:"role"         validate:"omitempty,oneof=User Admin"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	PhoneNumber string      `json:"phone_number"`
	Image       string      `json:"image"        validate:"omitempty,url"`
}

// UserPatch edits an account. Passwords change through SetPassword only.
type UserPatch struct {
	Email       *string      `json:"email"        validate:"omitempty,email"`
	Role        *models.Role `json:"role"         validate:"omitempty,oneof=User Admin"`
	FirstName   *string      `json:"first_name"`
	LastName    *string      `json:"last_name"`
	PhoneNumber *string      `json:"phone_number"`
	Image       *string      `json:"image"        validate:"omitempty,url"`
}

func (p UserPatch) set() bson.D {
	var d bson.D
	if p.Email != nil {
		d = append(d, bson.E{Key: "email", Value: normalizeEmail(*p.Email)})
	}
	if p.Role != nil {
		d = append(d, bson.E{Key: "role", Value: *p.Role})
	}
	if p.FirstName != nil {
		d = append(d, bson.E{Key: "first_name", Value: *p.FirstName})
	}
	if p.LastName != nil {
		d = append(d, bson.E{Key: "last_name", Value: *p.LastName})
	}
	if p.PhoneNumber != nil {
		d = append(d, bson.E{Key: "phone_number", Value: *p.PhoneNumber})
	}
	if p.Image != nil {
		d = append(d, bson.E{Key: "image", Value: *p.Image})
	}
	return d
}
