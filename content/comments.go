package content

import (
	"context"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Comments is the comments repository.
type Comments struct {
	store *inkwell.Store
}

// NewComments returns the comments repository.
func NewComments(store *inkwell.Store) *Comments {
	return &Comments{store: store}
}

// Create inserts an approved comment with no likes and no replies.
func (c *Comments) Create(ctx context.Context, in CommentInput) (bson.ObjectID, error) {
	if err := inkwell.CheckInput(in); err != nil {
		return bson.NilObjectID, err
	}
	postID, err := inkwell.ParseID(in.PostID)
	if err != nil {
		return bson.NilObjectID, err
	}
	authorID, err := inkwell.ParseID(in.AuthorID)
	if err != nil {
		return bson.NilObjectID, err
	}
	parentID, err := inkwell.ParseOptionalID(in.ParentCommentID)
	if err != nil {
		return bson.NilObjectID, err
	}

	doc := &models.Comment{
		PostID:          postID,
		AuthorID:        authorID,
		Content:         in.Content,
		ParentCommentID: parentID,
		IsApproved:      true,
		Replies:         []bson.ObjectID{},
	}
	id, err := c.store.Insert(ctx, doc)
	if err != nil {
		return bson.NilObjectID, fail(err, "Failed to create comment")
	}
	return id, nil
}

// GetByID returns the comment, or nil if it does not exist.
func (c *Comments) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return nil, err
	}
	var doc models.Comment
	if err := c.store.FindByID(ctx, oid, &doc); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fail(err, "Failed to fetch comment")
	}
	return &doc, nil
}

// ListByPost returns the approved top-level comments on a post with one level
// of replies.
func (c *Comments) ListByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	oid, err := inkwell.ParseID(postID)
	if err != nil {
		return nil, err
	}
	var out []models.CommentView
	if err := threadPipeline(c.store.Pipeline(&models.Comment{}), oid).Execute(ctx, &out); err != nil {
		return nil, fail(err, "Failed to fetch comments")
	}
	for i := range out {
		if out[i].Replies == nil {
			out[i].Replies = []models.CommentView{}
		}
	}
	return out, nil
}

// Update edits the content or approval of a comment.
func (c *Comments) Update(ctx context.Context, id string, patch CommentPatch) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	if err := inkwell.CheckInput(patch); err != nil {
		return err
	}
	res, err := c.store.UpdateByID(ctx, &models.Comment{}, oid, patch.set())
	if err != nil {
		return fail(err, "Failed to update comment")
	}
	if res.ModifiedCount == 0 {
		return notFound("Comment not found or no changes made")
	}
	return nil
}

// Delete removes the comment. Its replies are kept and no longer appear in
// threads.
func (c *Comments) Delete(ctx context.Context, id string) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	n, err := c.store.DeleteByID(ctx, &models.Comment{}, oid)
	if err != nil {
		return fail(err, "Failed to delete comment")
	}
	if n == 0 {
		return notFound("Comment not found")
	}
	return nil
}

// IncrementLikes atomically adds one like.
func (c *Comments) IncrementLikes(ctx context.Context, id string) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	res, err := c.store.Increment(ctx, &models.Comment{}, oid, "likes", 1)
	if err != nil {
		return fail(err, "Failed to update comment")
	}
	if res.ModifiedCount == 0 {
		return notFound("Comment not found")
	}
	return nil
}
