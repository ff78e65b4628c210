package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/spf13/cobra"
)

var diffFlag bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the content models",
	Long:  "Display every content model with its fields, indexes and relations. Use --diff to sample the live database for fields the models do not declare.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var a *app
		if diffFlag {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			var err error
			if a, err = setup(ctx); err != nil {
				return err
			}
			defer a.close(context.Background())
		}

		for _, schema := range inkwell.Sorted() {
			printSchema(schema)
			if a != nil {
				printDiff(a, schema)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&diffFlag, "diff", false, "Compare the models against the live database")
}

func printSchema(schema *inkwell.Schema) {
	fmt.Printf("%s (collection: %s)\n", schema.ModelName, schema.Collection)

	for i, field := range schema.Fields {
		connector := "├──"
		if i == len(schema.Fields)-1 {
			connector = "└──"
		}
		ref := ""
		if field.Ref != "" {
			ref = fmt.Sprintf(" → %s._id", field.Ref)
		}
		fmt.Printf("  %s %-18s %-18s %s%s\n", connector, field.BSONName, field.Type, fieldAttrs(field), ref)
	}

	if len(schema.CompoundIndexes) > 0 || hasIndexedFields(schema) {
		fmt.Println()
		fmt.Println("  Indexes:")
		for _, field := range schema.Fields {
			switch {
			case field.Unique:
				fmt.Printf("    ✓ %s_1 (unique)\n", field.BSONName)
			case field.Index:
				fmt.Printf("    ✓ %s_1\n", field.BSONName)
			}
		}
		for _, ci := range schema.CompoundIndexes {
			label := "(compound)"
			if ci.Unique {
				label = "(compound, unique)"
			}
			fmt.Printf("    ✓ %s %s\n", ci.Name(), label)
		}
	}

	if len(schema.Hooks) > 0 {
		fmt.Println()
		fmt.Println("  Hooks:")
		for _, h := range schema.Hooks {
			fmt.Printf("    ⚡ %s\n", h)
		}
	}
}

func fieldAttrs(f inkwell.FieldSchema) string {
	var parts []string
	if f.Unique {
		parts = append(parts, "unique")
	}
	if f.Index {
		parts = append(parts, "indexed")
	}
	if f.Required {
		parts = append(parts, "required")
	}
	if f.Immutable {
		parts = append(parts, "immutable")
	}
	if len(f.Enum) > 0 {
		parts = append(parts, fmt.Sprintf("enum(%s)", strings.Join(f.Enum, "|")))
	}
	if f.Default != "" {
		parts = append(parts, "default: "+f.Default)
	}
	if f.Min != nil {
		parts = append(parts, fmt.Sprintf("min: %d", *f.Min))
	}
	if f.Max != nil {
		parts = append(parts, fmt.Sprintf("max: %d", *f.Max))
	}
	return strings.Join(parts, ", ")
}

func hasIndexedFields(schema *inkwell.Schema) bool {
	for _, f := range schema.Fields {
		if f.Unique || f.Index {
			return true
		}
	}
	return false
}

func printDiff(a *app, schema *inkwell.Schema) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	drifts := inkwell.DetectDrift(ctx, a.store.DB(), schema, inkwell.DefaultDriftSampleSize)
	if len(drifts) == 0 {
		fmt.Println("  Drift: ✓ No drift detected")
		return
	}
	fmt.Println("  Drift:")
	for _, d := range drifts {
		fmt.Printf("    ⚠ %s: %s\n", d.Field, d.Message)
	}
}
