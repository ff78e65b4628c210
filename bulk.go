package inkwell

import (
	"context"
	"fmt"
)

// UpdateMany applies update to every document matching filter.
// The model parameter is used only for schema/collection lookup (e.g. &models.Category{}).
//
// This is a direct passthrough to MongoDB's UpdateMany: no validation, no
// updatedAt refresh. It exists for maintenance tasks such as counter resets.
func (s *Store) UpdateMany(ctx context.Context, model interface{}, filter, update interface{}) (UpdateResult, error) {
	coll, schema, err := s.Collection(model)
	if err != nil {
		return UpdateResult{}, err
	}

	var result UpdateResult
	err = s.run(ctx, &OpInfo{
		Operation:  OpUpdateMany,
		Collection: schema.Collection,
		ModelName:  schema.ModelName,
		Model:      model,
		Filter:     filter,
	}, func(ctx context.Context) error {
		res, err := coll.UpdateMany(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("inkwell: update many failed: %w", err)
		}
		result = UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
		return nil
	})
	return result, err
}
