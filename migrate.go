package inkwell

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MigrateOptions controls migration behavior.
type MigrateOptions struct {
	DryRun     bool
	DropExtras bool // drop indexes not in schema
}

// ActionType describes the kind of migration action.
type ActionType int

const (
	ActionCreateIndex ActionType = iota
	ActionDropIndex
	ActionFieldDrift // field in DB not in schema
)

// MigrationAction describes a single change to apply.
type MigrationAction struct {
	Type        ActionType
	Collection  string
	Description string
	IndexName   string
}

// MigrationPlan holds all planned actions.
type MigrationPlan struct {
	Actions []MigrationAction
}

// MigrationResult reports what happened during execution.
type MigrationResult struct {
	Executed int
	Skipped  int
	Warnings []string
	Errors   []error
}

// PlanMigration compares registered schemas against the live database and builds
// a migration plan. Actions are ordered by collection, then index name.
func (s *Store) PlanMigration(ctx context.Context, schemas []*Schema) (MigrationPlan, error) {
	var plan MigrationPlan
	if s == nil || s.db == nil {
		return plan, ErrUnavailable
	}

	for _, schema := range schemas {
		coll := s.db.Collection(schema.Collection)

		expected := expectedIndexes(schema)
		existing, err := ListExistingIndexes(ctx, coll)
		if err != nil {
			return plan, fmt.Errorf("migration: failed to list indexes on %s: %w", schema.Collection, err)
		}
		delete(existing, "_id_")

		for _, name := range sortedKeys(expected) {
			if !existing[name] {
				plan.Actions = append(plan.Actions, MigrationAction{
					Type:        ActionCreateIndex,
					Collection:  schema.Collection,
					Description: fmt.Sprintf("Create index: %s", name),
					IndexName:   name,
				})
			}
		}

		for _, name := range sortedKeys(existing) {
			if _, ok := expected[name]; !ok {
				plan.Actions = append(plan.Actions, MigrationAction{
					Type:        ActionDropIndex,
					Collection:  schema.Collection,
					Description: fmt.Sprintf("Drop index: %s (not in schema)", name),
					IndexName:   name,
				})
			}
		}

		for _, d := range DetectDrift(ctx, s.db, schema, DefaultDriftSampleSize) {
			plan.Actions = append(plan.Actions, MigrationAction{
				Type:        ActionFieldDrift,
				Collection:  schema.Collection,
				Description: fmt.Sprintf("Extra field: %s", d.Field),
			})
		}
	}

	return plan, nil
}

// ExecuteMigration applies the planned actions to the database.
func (s *Store) ExecuteMigration(ctx context.Context, plan MigrationPlan, opts MigrateOptions) (MigrationResult, error) {
	var result MigrationResult
	if s == nil || s.db == nil {
		return result, ErrUnavailable
	}

	for _, action := range plan.Actions {
		coll := s.db.Collection(action.Collection)

		switch action.Type {
		case ActionCreateIndex:
			model, ok := indexModelFor(action.Collection, action.IndexName)
			if !ok {
				result.Errors = append(result.Errors, fmt.Errorf("%s: no schema declares this index", action.Description))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", action.Description, err))
			} else {
				result.Executed++
			}

		case ActionDropIndex:
			if !opts.DropExtras {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped drop: %s on %s (use --drop-extras to drop)", action.IndexName, action.Collection))
				continue
			}
			if err := coll.Indexes().DropOne(ctx, action.IndexName); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", action.Description, err))
			} else {
				result.Executed++
			}

		case ActionFieldDrift:
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", action.Collection, action.Description))
		}
	}

	return result, nil
}

// Migrate plans and, unless DryRun is set, executes a migration for every
// registered schema.
func (s *Store) Migrate(ctx context.Context, opts MigrateOptions) (MigrationResult, error) {
	plan, err := s.PlanMigration(ctx, Sorted())
	if err != nil {
		return MigrationResult{}, err
	}

	if opts.DryRun {
		return MigrationResult{
			Skipped:  len(plan.Actions),
			Warnings: []string{"Dry run: no changes applied"},
		}, nil
	}

	return s.ExecuteMigration(ctx, plan, opts)
}

func indexModelFor(collection, indexName string) (mongo.IndexModel, bool) {
	for _, schema := range GetAll() {
		if schema.Collection != collection {
			continue
		}
		if model, ok := expectedIndexes(schema)[indexName]; ok {
			return model, true
		}
	}
	return mongo.IndexModel{}, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
