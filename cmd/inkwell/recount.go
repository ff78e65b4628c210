package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dwoolworth/inkwell/content"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var recountCmd = &cobra.Command{
	Use:   "recount",
	Short: "Recompute post counts on categories and tags",
	Long:  "Counts posts and publications per category and per tag and stores the result in each term's postCount.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		a, err := setup(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		start := time.Now()
		res, err := content.Recount(ctx, a.store)
		if err != nil {
			return err
		}
		a.log.Info("recount finished",
			zap.Int("categories", res.Categories),
			zap.Int("tags", res.Tags),
			zap.Duration("duration", time.Since(start)))
		fmt.Printf("Updated %d categor(ies) and %d tag(s)\n", res.Categories, res.Tags)
		return nil
	},
}
