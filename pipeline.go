package inkwell

import (
	"context"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Pipeline is a fluent builder for MongoDB aggregation pipelines.
// It is bound to a store and a model for collection lookup.
//
// Example:
//
//	var views []ArticleView
//	err := store.Pipeline(&models.Post{}).
//	    Match(bson.D{{Key: "_id", Value: id}}).
//	    Lookup("users", "authorId", "_id", "author").
//	    Unwind("author").
//	    Execute(ctx, &views)
type Pipeline struct {
	store  *Store
	model  interface{}
	stages []bson.D
}

// Pipeline starts a new aggregation pipeline on model's collection.
func (s *Store) Pipeline(model interface{}) *Pipeline {
	return &Pipeline{store: s, model: model}
}

// NewPipeline creates an unbound pipeline, useful for building sub-pipelines
// and for inspecting stages in tests.
func NewPipeline(model interface{}) *Pipeline {
	return &Pipeline{model: model}
}

// Match adds a $match stage to filter documents.
func (p *Pipeline) Match(filter interface{}) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$match", Value: filter}})
	return p
}

// Group adds a $group stage for aggregation.
func (p *Pipeline) Group(group interface{}) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$group", Value: group}})
	return p
}

// Sort adds a $sort stage.
func (p *Pipeline) Sort(sort interface{}) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$sort", Value: sort}})
	return p
}

// Project adds a $project stage to reshape documents.
func (p *Pipeline) Project(projection interface{}) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$project", Value: projection}})
	return p
}

// Limit adds a $limit stage.
func (p *Pipeline) Limit(n int64) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$limit", Value: n}})
	return p
}

// Skip adds a $skip stage.
func (p *Pipeline) Skip(n int64) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$skip", Value: n}})
	return p
}

// Unwind adds a $unwind stage to deconstruct an array field.
// The field name is automatically prefixed with "$". Documents whose array is
// empty or missing are dropped, which turns a preceding Lookup into an inner join.
func (p *Pipeline) Unwind(field string) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$unwind", Value: "$" + field}})
	return p
}

// Lookup adds a $lookup stage for a left outer join.
func (p *Pipeline) Lookup(from, localField, foreignField, as string) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}})
	return p
}

// LookupPipeline adds a $lookup stage that runs sub against from, with let
// variables bound from the outer document.
func (p *Pipeline) LookupPipeline(from string, let bson.D, sub *Pipeline, as string) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "let", Value: let},
		{Key: "pipeline", Value: sub.Stages()},
		{Key: "as", Value: as},
	}}})
	return p
}

// Join is Lookup followed by Unwind on the same field: an inner join that keeps
// a single embedded document and drops parents with no match.
func (p *Pipeline) Join(from, localField, as string) *Pipeline {
	return p.Lookup(from, localField, "_id", as).Unwind(as)
}

// AddFields adds a $addFields stage to add computed fields.
func (p *Pipeline) AddFields(fields interface{}) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$addFields", Value: fields}})
	return p
}

// Count adds a $count stage that outputs a document with the given field
// containing the count of documents at this stage.
func (p *Pipeline) Count(field string) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$count", Value: field}})
	return p
}

// Stage appends a raw aggregation stage for operations not covered by
// the builder methods.
func (p *Pipeline) Stage(stage bson.D) *Pipeline {
	p.stages = append(p.stages, stage)
	return p
}

// Stages returns the accumulated pipeline stages. Useful for inspection or testing.
func (p *Pipeline) Stages() []bson.D {
	return p.stages
}

// Execute runs the aggregation pipeline and decodes all results into the
// provided slice pointer. An empty result leaves an empty, non-nil slice.
func (p *Pipeline) Execute(ctx context.Context, results interface{}) error {
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("inkwell: results must be a pointer to a slice, got %T", results)
	}

	coll, schema, err := p.store.Collection(p.model)
	if err != nil {
		return err
	}

	return p.store.run(ctx, &OpInfo{
		Operation: OpAggregate, Collection: schema.Collection,
		ModelName: schema.ModelName, Filter: p.stages,
	}, func(ctx context.Context) error {
		cursor, err := coll.Aggregate(ctx, p.stages)
		if err != nil {
			return fmt.Errorf("inkwell: aggregate failed: %w", err)
		}
		defer func() { _ = cursor.Close(ctx) }()

		if err := cursor.All(ctx, results); err != nil {
			return fmt.Errorf("inkwell: aggregate decode failed: %w", err)
		}
		if rv.Elem().IsNil() {
			rv.Elem().Set(reflect.MakeSlice(rv.Elem().Type(), 0, 0))
		}
		return nil
	})
}

// First runs the pipeline and decodes the first result into result. It reports
// false when the pipeline produced no documents.
func (p *Pipeline) First(ctx context.Context, result interface{}) (bool, error) {
	coll, schema, err := p.store.Collection(p.model)
	if err != nil {
		return false, err
	}

	var found bool
	err = p.store.run(ctx, &OpInfo{
		Operation: OpAggregate, Collection: schema.Collection,
		ModelName: schema.ModelName, Filter: p.stages,
	}, func(ctx context.Context) error {
		cursor, err := coll.Aggregate(ctx, p.stages)
		if err != nil {
			return fmt.Errorf("inkwell: aggregate failed: %w", err)
		}
		defer func() { _ = cursor.Close(ctx) }()

		if !cursor.Next(ctx) {
			return cursor.Err()
		}
		if err := cursor.Decode(result); err != nil {
			return fmt.Errorf("inkwell: aggregate decode failed: %w", err)
		}
		found = true
		return nil
	})
	return found, err
}
