package inkwell

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/dwoolworth/inkwell/internal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FindOptions configures Find.
type FindOptions struct {
	Limit int64
	Skip  int64
	Sort  bson.D
}

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// Insert stores a new document. It generates an ID if zero, stamps createdAt and
// updatedAt with the same instant, applies schema defaults, runs the BeforeCreate
// hook and validates against the schema before writing.
func (s *Store) Insert(ctx context.Context, model interface{}) (bson.ObjectID, error) {
	coll, schema, err := s.Collection(model)
	if err != nil {
		return bson.NilObjectID, err
	}

	var id bson.ObjectID
	err = s.run(ctx, &OpInfo{
		Operation: OpCreate, Collection: schema.Collection,
		ModelName: schema.ModelName, Model: model,
	}, func(ctx context.Context) error {
		cur, err := getModelID(model)
		if err != nil {
			return err
		}
		if cur.IsZero() {
			cur = bson.NewObjectID()
			setModelID(model, cur)
		}
		id = cur

		setTimestamps(model, now())

		if err := applyDefaults(model, schema); err != nil {
			return err
		}

		if hook, ok := model.(BeforeCreate); ok {
			if err := hook.BeforeCreate(ctx); err != nil {
				return err
			}
		}

		if errs := Validate(model, schema); len(errs) > 0 {
			return ValidationErrors(errs)
		}

		if _, err := coll.InsertOne(ctx, model); err != nil {
			return fmt.Errorf("inkwell: insert failed: %w", err)
		}
		return nil
	})

	return id, err
}

// FindOne finds a single document matching filter and decodes it into result.
// Returns ErrNotFound if no document matches.
func (s *Store) FindOne(ctx context.Context, filter interface{}, result interface{}) error {
	coll, schema, err := s.Collection(result)
	if err != nil {
		return err
	}

	return s.run(ctx, &OpInfo{
		Operation: OpFind, Collection: schema.Collection,
		ModelName: schema.ModelName, Model: result, Filter: filter,
	}, func(ctx context.Context) error {
		if err := coll.FindOne(ctx, filter).Decode(result); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("inkwell: find one failed: %w", err)
		}
		return nil
	})
}

// FindByID is FindOne on the _id field.
func (s *Store) FindByID(ctx context.Context, id bson.ObjectID, result interface{}) error {
	return s.FindOne(ctx, bson.D{{Key: "_id", Value: id}}, result)
}

// Find finds all documents matching filter and decodes them into results.
// results must be a pointer to a slice (e.g. *[]models.Category).
func (s *Store) Find(ctx context.Context, filter interface{}, results interface{}, opts ...FindOptions) error {
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("inkwell: results must be a pointer to a slice, got %T", results)
	}

	coll, schema, err := s.Collection(results)
	if err != nil {
		return err
	}

	var opt FindOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	return s.run(ctx, &OpInfo{
		Operation: OpFind, Collection: schema.Collection,
		ModelName: schema.ModelName, Filter: filter,
	}, func(ctx context.Context) error {
		findOpts := options.Find()
		if opt.Limit > 0 {
			findOpts.SetLimit(opt.Limit)
		}
		if opt.Skip > 0 {
			findOpts.SetSkip(opt.Skip)
		}
		if opt.Sort != nil {
			findOpts.SetSort(opt.Sort)
		}

		cursor, err := coll.Find(ctx, filter, findOpts)
		if err != nil {
			return fmt.Errorf("inkwell: find failed: %w", err)
		}
		defer func() { _ = cursor.Close(ctx) }()

		if err := cursor.All(ctx, results); err != nil {
			return fmt.Errorf("inkwell: cursor decode failed: %w", err)
		}
		// cursor.All leaves a nil slice untouched on no results; callers
		// serialize an empty list rather than null.
		if rv.Elem().IsNil() {
			rv.Elem().Set(reflect.MakeSlice(rv.Elem().Type(), 0, 0))
		}
		return nil
	})
}

// Count returns the number of documents in model's collection matching filter.
func (s *Store) Count(ctx context.Context, model interface{}, filter interface{}) (int64, error) {
	coll, schema, err := s.Collection(model)
	if err != nil {
		return 0, err
	}

	var n int64
	err = s.run(ctx, &OpInfo{
		Operation: OpCount, Collection: schema.Collection,
		ModelName: schema.ModelName, Filter: filter,
	}, func(ctx context.Context) error {
		c, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("inkwell: count failed: %w", err)
		}
		n = c
		return nil
	})
	return n, err
}

// UpdateByID merges set into the document with the given id and advances
// updatedAt. The patch is checked against the schema first. The model parameter
// is used only for schema/collection lookup (e.g. &models.Post{}).
//
// A matched document is always modified since updatedAt moves forward.
func (s *Store) UpdateByID(ctx context.Context, model interface{}, id bson.ObjectID, set bson.D) (UpdateResult, error) {
	coll, schema, err := s.Collection(model)
	if err != nil {
		return UpdateResult{}, err
	}

	if errs := ValidatePatch(set, schema); len(errs) > 0 {
		return UpdateResult{}, ValidationErrors(errs)
	}

	filter := bson.D{{Key: "_id", Value: id}}
	update := mongo.Pipeline{{{Key: "$set", Value: patchStage(set, now())}}}
	var result UpdateResult
	err = s.run(ctx, &OpInfo{
		Operation: OpUpdate, Collection: schema.Collection,
		ModelName: schema.ModelName, Model: model, Filter: filter,
	}, func(ctx context.Context) error {
		res, err := coll.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("inkwell: update failed: %w", err)
		}
		result = UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
		return nil
	})
	return result, err
}

// Increment atomically adds by to a numeric field without touching updatedAt.
func (s *Store) Increment(ctx context.Context, model interface{}, id bson.ObjectID, field string, by int) (UpdateResult, error) {
	coll, schema, err := s.Collection(model)
	if err != nil {
		return UpdateResult{}, err
	}
	if !schema.HasField(field) {
		return UpdateResult{}, fmt.Errorf("inkwell: field %q not found in schema for %s", field, schema.ModelName)
	}

	filter := bson.D{{Key: "_id", Value: id}}
	var result UpdateResult
	err = s.run(ctx, &OpInfo{
		Operation: OpUpdate, Collection: schema.Collection,
		ModelName: schema.ModelName, Model: model, Filter: filter,
	}, func(ctx context.Context) error {
		res, err := coll.UpdateOne(ctx, filter, bson.D{{Key: "$inc", Value: bson.D{{Key: field, Value: by}}}})
		if err != nil {
			return fmt.Errorf("inkwell: increment failed: %w", err)
		}
		result = UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
		return nil
	})
	return result, err
}

// DeleteByID removes the document with the given id and returns how many
// documents were deleted. There is no cascade to referencing collections.
func (s *Store) DeleteByID(ctx context.Context, model interface{}, id bson.ObjectID) (int64, error) {
	coll, schema, err := s.Collection(model)
	if err != nil {
		return 0, err
	}

	filter := bson.D{{Key: "_id", Value: id}}
	var deleted int64
	err = s.run(ctx, &OpInfo{
		Operation: OpDelete, Collection: schema.Collection,
		ModelName: schema.ModelName, Model: model, Filter: filter,
	}, func(ctx context.Context) error {
		res, err := coll.DeleteOne(ctx, filter)
		if err != nil {
			return fmt.Errorf("inkwell: delete failed: %w", err)
		}
		deleted = res.DeletedCount
		return nil
	})
	return deleted, err
}

// --- helpers ---

// patchStage builds the $set stage of an update pipeline. Values are wrapped in
// $literal so strings starting with "$" are stored as given. updatedAt becomes
// the later of ts and one millisecond past the stored value, so it strictly
// increases even when two writes share a clock tick.
func patchStage(set bson.D, ts time.Time) bson.D {
	stage := make(bson.D, 0, len(set)+1)
	for _, e := range set {
		if e.Key == "updatedAt" || e.Key == "_id" || e.Key == "createdAt" {
			continue
		}
		stage = append(stage, bson.E{Key: e.Key, Value: bson.D{{Key: "$literal", Value: e.Value}}})
	}
	return append(stage, bson.E{Key: "updatedAt", Value: bson.D{{Key: "$max", Value: bson.A{
		ts,
		bson.D{{Key: "$add", Value: bson.A{"$updatedAt", 1}}},
	}}}})
}

var (
	clockMu   sync.Mutex
	lastStamp time.Time
)

// now is the clock used for timestamps. BSON dates carry millisecond precision,
// so values are truncated to keep in-memory and stored values equal. Successive
// calls never return the same instant.
var now = func() time.Time {
	ts := time.Now().UTC().Truncate(time.Millisecond)
	clockMu.Lock()
	defer clockMu.Unlock()
	if !ts.After(lastStamp) {
		ts = lastStamp.Add(time.Millisecond)
	}
	lastStamp = ts
	return ts
}

// Now returns the current time as the store records it: UTC, millisecond precision.
func Now() time.Time { return now() }

// getSchemaForModel resolves the schema for a model instance from the registry.
func getSchemaForModel(model interface{}) (*Schema, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil, fmt.Errorf("inkwell: nil model")
	}
	t = internal.ElemType(t)

	schema, ok := Get(t.Name())
	if !ok {
		return nil, fmt.Errorf("inkwell: model %q is not registered", t.Name())
	}
	return schema, nil
}

// getModelID extracts the ID field from a model via reflection.
func getModelID(model interface{}) (bson.ObjectID, error) {
	idField := internal.Indirect(model).FieldByName("ID")
	if !idField.IsValid() {
		return bson.ObjectID{}, fmt.Errorf("inkwell: model has no ID field")
	}
	id, ok := idField.Interface().(bson.ObjectID)
	if !ok {
		return bson.ObjectID{}, fmt.Errorf("inkwell: ID field is not bson.ObjectID")
	}
	return id, nil
}

// setModelID sets the ID field on a model via reflection.
func setModelID(model interface{}, id bson.ObjectID) {
	idField := internal.Indirect(model).FieldByName("ID")
	if idField.IsValid() && idField.CanSet() {
		idField.Set(reflect.ValueOf(id))
	}
}

// setTimestamps sets CreatedAt (if zero) and UpdatedAt on a model via reflection.
func setTimestamps(model interface{}, ts time.Time) {
	v := internal.Indirect(model)
	created := v.FieldByName("CreatedAt")
	if created.IsValid() && created.CanSet() && created.Interface().(time.Time).IsZero() {
		created.Set(reflect.ValueOf(ts))
	}
	if f := v.FieldByName("UpdatedAt"); f.IsValid() && f.CanSet() {
		if created.IsValid() {
			// A fresh document reports createdAt == updatedAt.
			f.Set(created)
		} else {
			f.Set(reflect.ValueOf(ts))
		}
	}
}
