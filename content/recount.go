package content

import (
	"context"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// RecountResult reports how many terms received a non-zero count.
type RecountResult struct {
	Categories int `json:"categories"`
	Tags       int `json:"tags"`
}

type termCount struct {
	Key   interface{} `bson:"_id"`
	Count int         `bson:"count"`
}

// Recount recomputes postCount on every category and tag from the posts and
// publications collections, regardless of article status. Counts are reset to
// zero first and then written term by term; readers may observe intermediate
// values while it runs.
func Recount(ctx context.Context, store *inkwell.Store) (RecountResult, error) {
	var result RecountResult

	categories := map[bson.ObjectID]int{}
	tags := map[string]int{}
	for _, model := range []interface{}{&models.Post{}, &models.Publication{}} {
		var byCategory []termCount
		if err := countByCategoryPipeline(store.Pipeline(model)).Execute(ctx, &byCategory); err != nil {
			return result, fail(err, "Failed to count articles")
		}
		for _, c := range byCategory {
			if id, ok := c.Key.(bson.ObjectID); ok {
				categories[id] += c.Count
			}
		}

		var byTag []termCount
		if err := countByTagPipeline(store.Pipeline(model)).Execute(ctx, &byTag); err != nil {
			return result, fail(err, "Failed to count articles")
		}
		for _, c := range byTag {
			if name, ok := c.Key.(string); ok {
				tags[name] += c.Count
			}
		}
	}

	reset := bson.D{{Key: "$set", Value: bson.D{{Key: "postCount", Value: 0}}}}
	if _, err := store.UpdateMany(ctx, &models.Category{}, bson.D{}, reset); err != nil {
		return result, fail(err, "Failed to reset category counts")
	}
	if _, err := store.UpdateMany(ctx, &models.Tag{}, bson.D{}, reset); err != nil {
		return result, fail(err, "Failed to reset tag counts")
	}

	for id, n := range categories {
		res, err := store.UpdateMany(ctx, &models.Category{}, bson.D{{Key: "_id", Value: id}}, setCount(n))
		if err != nil {
			return result, fail(err, "Failed to update category counts")
		}
		result.Categories += int(res.MatchedCount)
	}
	for name, n := range tags {
		res, err := store.UpdateMany(ctx, &models.Tag{}, bson.D{{Key: "name", Value: name}}, setCount(n))
		if err != nil {
			return result, fail(err, "Failed to update tag counts")
		}
		result.Tags += int(res.MatchedCount)
	}
	return result, nil
}

func setCount(n int) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{{Key: "postCount", Value: n}}}}
}
