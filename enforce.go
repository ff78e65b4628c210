package inkwell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultDriftSampleSize is how many documents DetectDrift inspects per collection.
const DefaultDriftSampleSize = 100

// DriftPolicy controls how schema drift is handled during enforcement.
type DriftPolicy int

const (
	DriftIgnore DriftPolicy = iota // skip drift detection entirely
	DriftWarn                      // detect drift, call OnDriftWarning, continue
	DriftFatal                     // detect drift, return error if any found
)

// EnforceOptions configures the behavior of Enforce.
type EnforceOptions struct {
	DriftPolicy    DriftPolicy
	OnDriftWarning func(d DriftError) // called for each drift when policy is DriftWarn
}

// Enforce creates every index the registered schemas declare: unique slugs on
// the content collections, the unique user email, and the compound listing
// indexes. Existing indexes are left alone.
func (s *Store) Enforce(ctx context.Context, opts ...EnforceOptions) error {
	if s == nil || s.db == nil {
		return ErrUnavailable
	}
	var opt EnforceOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	for _, schema := range Sorted() {
		if err := enforceSchema(ctx, s.db, schema); err != nil {
			return err
		}

		if opt.DriftPolicy == DriftIgnore {
			continue
		}

		drifts := DetectDrift(ctx, s.db, schema, DefaultDriftSampleSize)
		if len(drifts) == 0 {
			continue
		}

		switch opt.DriftPolicy {
		case DriftWarn:
			for _, d := range drifts {
				if opt.OnDriftWarning != nil {
					opt.OnDriftWarning(d)
				}
			}
		case DriftFatal:
			msgs := make([]string, len(drifts))
			for i, d := range drifts {
				msgs[i] = d.Error()
			}
			return &EnforcementError{
				Collection: schema.Collection,
				Message:    fmt.Sprintf("schema drift detected: %s", strings.Join(msgs, "; ")),
			}
		}
	}

	return nil
}

func enforceSchema(ctx context.Context, db *mongo.Database, schema *Schema) error {
	coll := db.Collection(schema.Collection)

	existing, err := ListExistingIndexes(ctx, coll)
	if err != nil {
		return &EnforcementError{
			Collection: schema.Collection,
			Message:    fmt.Sprintf("failed to list indexes: %v", err),
		}
	}

	for name, model := range expectedIndexes(schema) {
		if existing[name] {
			continue
		}
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			return &EnforcementError{
				Collection: schema.Collection,
				Message:    fmt.Sprintf("failed to create index %s: %v", name, err),
			}
		}
	}

	return nil
}

// expectedIndexes maps index names to the models a schema declares, using the
// server's default naming (field_dir joined by underscores).
func expectedIndexes(schema *Schema) map[string]mongo.IndexModel {
	out := make(map[string]mongo.IndexModel)

	for _, field := range schema.Fields {
		if !field.Unique && !field.Index {
			continue
		}
		model := mongo.IndexModel{Keys: bson.D{{Key: field.BSONName, Value: 1}}}
		if field.Unique {
			model.Options = options.Index().SetUnique(true)
		}
		out[field.BSONName+"_1"] = model
	}

	for _, ci := range schema.CompoundIndexes {
		keys := bson.D{}
		for i, f := range ci.Fields {
			keys = append(keys, bson.E{Key: f, Value: ci.direction(i)})
		}
		model := mongo.IndexModel{Keys: keys}
		if ci.Unique {
			model.Options = options.Index().SetUnique(true)
		}
		out[compoundIndexName(ci)] = model
	}

	return out
}

// DetectDrift samples documents from the collection and reports fields
// that exist in the database but not in the schema.
func DetectDrift(ctx context.Context, db *mongo.Database, schema *Schema, sampleSize int64) []DriftError {
	var drifts []DriftError
	coll := db.Collection(schema.Collection)

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetLimit(sampleSize))
	if err != nil {
		return drifts
	}
	defer func() { _ = cursor.Close(ctx) }()

	knownFields := make(map[string]bool)
	for _, f := range schema.Fields {
		knownFields[f.BSONName] = true
	}

	seen := make(map[string]bool)
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		for _, elem := range doc {
			if !knownFields[elem.Key] && !seen[elem.Key] {
				seen[elem.Key] = true
				drifts = append(drifts, DriftError{
					Collection: schema.Collection,
					Field:      elem.Key,
					Message:    "field exists in database but not in schema",
				})
			}
		}
	}

	return drifts
}

// ListExistingIndexes returns a set of index names that exist on the collection.
func ListExistingIndexes(ctx context.Context, coll *mongo.Collection) (map[string]bool, error) {
	result := make(map[string]bool)

	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	for cursor.Next(ctx) {
		var idx bson.M
		if err := cursor.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			result[name] = true
		}
	}

	return result, nil
}

func compoundIndexName(ci CompoundIndex) string {
	parts := make([]string, 0, len(ci.Fields)*2)
	for i, f := range ci.Fields {
		parts = append(parts, f, strconv.Itoa(ci.direction(i)))
	}
	return strings.Join(parts, "_")
}
