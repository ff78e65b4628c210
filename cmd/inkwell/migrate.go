package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/spf13/cobra"
)

var (
	migrateDryRun     bool
	migrateDropExtras bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate database indexes to match the content models",
	Long:  "Compare the registered content models against the live database and apply index changes.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Show planned changes without applying them")
	migrateCmd.Flags().BoolVar(&migrateDropExtras, "drop-extras", false, "Drop indexes not defined by the models")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	schemas := inkwell.Sorted()
	plan, err := a.store.PlanMigration(ctx, schemas)
	if err != nil {
		return err
	}

	title := "Migration Plan for " + a.cfg.MongoDB
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))
	fmt.Println()

	byCollection := make(map[string][]inkwell.MigrationAction)
	for _, action := range plan.Actions {
		byCollection[action.Collection] = append(byCollection[action.Collection], action)
	}

	var creates, drops, warns int
	for _, schema := range schemas {
		actions := byCollection[schema.Collection]
		fmt.Printf("%s:\n", schema.Collection)

		if len(actions) == 0 {
			fmt.Println("  ✓ No changes needed")
		}
		for _, action := range actions {
			switch action.Type {
			case inkwell.ActionCreateIndex:
				fmt.Printf("  + %s\n", action.Description)
				creates++
			case inkwell.ActionDropIndex:
				fmt.Printf("  - %s\n", action.Description)
				drops++
			case inkwell.ActionFieldDrift:
				fmt.Printf("  ⚠ %s\n", action.Description)
				warns++
			}
		}
		fmt.Println()
	}

	fmt.Printf("Summary: %d to create, %d to drop, %d warning(s)\n", creates, drops, warns)

	if migrateDryRun {
		fmt.Println("Run without --dry-run to apply.")
		return nil
	}

	result, err := a.store.ExecuteMigration(ctx, plan, inkwell.MigrateOptions{DropExtras: migrateDropExtras})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Executed: %d, Skipped: %d\n", result.Executed, result.Skipped)
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠ %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("  ✗ %s\n", e)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d migration action(s) failed", len(result.Errors))
	}
	return nil
}
