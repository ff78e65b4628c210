package inkwell

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Refs maps bson field names to destination pointers for population.
// Keys must correspond to fields tagged with store:"ref=collection".
type Refs map[string]interface{}

// Populate resolves ref fields on a loaded model by fetching referenced documents
// from their respective collections. Each key in refs is a bson field name tagged
// with store:"ref=collection", and the corresponding value is a pointer where the
// referenced document will be decoded.
//
// Population is a left join: a zero or dangling reference leaves the target
// untouched and is reported in the returned slice of missing field names.
func (s *Store) Populate(ctx context.Context, model interface{}, refs Refs) ([]string, error) {
	schema, err := getSchemaForModel(model)
	if err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, Unavailable(schema.Collection)
	}

	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	var missing []string
	for bsonName, target := range refs {
		field := schema.GetField(bsonName)
		if field == nil {
			return nil, fmt.Errorf("inkwell: field %q not found in schema for %s", bsonName, schema.ModelName)
		}
		if field.Ref == "" {
			return nil, fmt.Errorf("inkwell: field %q has no ref tag", bsonName)
		}

		fv := v.FieldByName(field.Name)
		if !fv.IsValid() {
			return nil, fmt.Errorf("inkwell: field %q not found in model struct", field.Name)
		}

		refID, ok := fv.Interface().(bson.ObjectID)
		if !ok {
			return nil, fmt.Errorf("inkwell: ref field %q is not bson.ObjectID", bsonName)
		}
		if refID.IsZero() {
			missing = append(missing, bsonName)
			continue
		}

		filter := bson.D{{Key: "_id", Value: refID}}
		coll := s.db.Collection(field.Ref)
		err := s.run(ctx, &OpInfo{
			Operation: OpFind, Collection: field.Ref, Filter: filter,
		}, func(ctx context.Context) error {
			return coll.FindOne(ctx, filter).Decode(target)
		})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				missing = append(missing, bsonName)
				continue
			}
			return nil, fmt.Errorf("inkwell: populate %q failed: %w", bsonName, err)
		}
	}

	return missing, nil
}
