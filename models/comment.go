package models

import (
	"time"

	"github.com/dwoolworth/inkwell"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Comment is a reader comment on an article. Top-level comments carry a null
// parentCommentId; replies point at their parent and are fetched, never
// embedded.
type Comment struct {
	inkwell.Model   `bson:",inline"`
	PostID          bson.ObjectID   `bson:"postId"          json:"postId"          store:"required,index,ref=posts,immutable"`
	AuthorID        bson.ObjectID   `bson:"authorId"        json:"authorId"        store:"required,ref=users,immutable"`
	Content         string          `bson:"content"         json:"content"         store:"required"`
	ParentCommentID *bson.ObjectID  `bson:"parentCommentId" json:"parentCommentId" store:"index,immutable"`
	Likes           int             `bson:"likes"           json:"likes"           store:"min=0"`
	IsApproved      bool            `bson:"isApproved"      json:"isApproved"`
	Replies         []bson.ObjectID `bson:"replies"         json:"-"`
}

// CommentView is a comment with its author and, for top-level comments, its
// direct replies. It is decoded from the threaded comment pipeline.
type CommentView struct {
	ID              bson.ObjectID  `bson:"_id"             json:"_id"`
	PostID          bson.ObjectID  `bson:"postId"          json:"postId"`
	AuthorID        bson.ObjectID  `bson:"authorId"        json:"authorId"`
	Content         string         `bson:"content"         json:"content"`
	ParentCommentID *bson.ObjectID `bson:"parentCommentId" json:"parentCommentId"`
	Likes           int            `bson:"likes"           json:"likes"`
	IsApproved      bool           `bson:"isApproved"      json:"isApproved"`
	CreatedAt       time.Time      `bson:"createdAt"       json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt"       json:"updatedAt"`
	Author          User           `bson:"author"          json:"author"`
	Replies         []CommentView  `bson:"replies"         json:"replies"`
}

func init() {
	inkwell.MustRegister(&Comment{}, "comments")
}
