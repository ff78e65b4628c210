package content

import (
	"regexp"
	"strings"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// withRelations joins the author and category into an article pipeline. Both
// lookups run before either unwind, and the unwinds make the joins inner: an
// article whose author or category is gone drops out of the result.
func withRelations(p *inkwell.Pipeline) *inkwell.Pipeline {
	return p.
		Lookup("users", "authorId", "_id", "author").
		Lookup("categories", "categoryId", "_id", "category").
		Unwind("author").
		Unwind("category")
}

// articleByIDPipeline selects one article with its relations.
func articleByIDPipeline(p *inkwell.Pipeline, id bson.ObjectID) *inkwell.Pipeline {
	return withRelations(p.Match(bson.D{{Key: "_id", Value: id}}))
}

// searchFilter matches published articles whose title, content or excerpt
// contains query, or with a tag containing it, ignoring case. Surrounding
// whitespace is trimmed and the rest is matched literally.
func searchFilter(query string) bson.D {
	pattern := regexp.QuoteMeta(strings.TrimSpace(query))
	contains := func(field string) bson.D {
		return bson.D{{Key: field, Value: bson.D{
			{Key: "$regex", Value: pattern},
			{Key: "$options", Value: "i"},
		}}}
	}

	return bson.D{
		{Key: "status", Value: models.StatusPublished},
		{Key: "$or", Value: bson.A{
			contains("title"),
			contains("content"),
			contains("excerpt"),
			bson.D{{Key: "tags", Value: bson.D{
				{Key: "$in", Value: bson.A{bson.Regex{Pattern: pattern, Options: "i"}}},
			}}},
		}},
	}
}

// searchPipeline pages through the matches newest first and joins relations
// after paging, so only the returned page is joined.
func searchPipeline(p *inkwell.Pipeline, filter bson.D, page, limit int) *inkwell.Pipeline {
	p.Match(filter).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Skip(inkwell.Offset(page, limit)).
		Limit(int64(limit))
	return withRelations(p)
}

// byCategoryNamePipeline lists articles whose category has the given display
// name, newest first. Renaming a category detaches its articles from the old
// name.
func byCategoryNamePipeline(p *inkwell.Pipeline, name string) *inkwell.Pipeline {
	return p.
		Lookup("categories", "categoryId", "_id", "category").
		Unwind("category").
		Match(bson.D{{Key: "category.name", Value: name}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}})
}

// threadPipeline fetches the approved top-level comments of a post, newest
// first, each with its author and its direct replies (oldest first, with
// authors). Comments and replies whose author is gone are dropped.
func threadPipeline(p *inkwell.Pipeline, postID bson.ObjectID) *inkwell.Pipeline {
	replies := inkwell.NewPipeline(&models.Comment{}).
		Match(bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{"$parentCommentId", "$$commentId"}},
		}}}).
		Sort(bson.D{{Key: "createdAt", Value: 1}}).
		Join("users", "authorId", "author")

	return p.
		Match(bson.D{
			{Key: "postId", Value: postID},
			{Key: "parentCommentId", Value: nil},
			{Key: "isApproved", Value: true},
		}).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Join("users", "authorId", "author").
		LookupPipeline("comments", bson.D{{Key: "commentId", Value: "$_id"}}, replies, "replies")
}

// countByCategoryPipeline counts articles per categoryId.
func countByCategoryPipeline(p *inkwell.Pipeline) *inkwell.Pipeline {
	return p.Group(bson.D{
		{Key: "_id", Value: "$categoryId"},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	})
}

// countByTagPipeline counts articles per tag name.
func countByTagPipeline(p *inkwell.Pipeline) *inkwell.Pipeline {
	return p.Unwind("tags").Group(bson.D{
		{Key: "_id", Value: "$tags"},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	})
}
