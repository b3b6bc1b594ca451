package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/incident-reports-api/categories"
	"github.com/linesmerrill/incident-reports-api/databases"
)

var categoriesFlags struct {
	force   bool
	timeout time.Duration
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Seed and sync incident categories",
}

var categoriesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Seed the built-in categories into an empty store",
	Args:  cobra.NoArgs,
	RunE:  runCategoriesMigrate,
}

var categoriesSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add missing built-in categories, or overwrite them all with --force",
	Args:  cobra.NoArgs,
	RunE:  runCategoriesSync,
}

func init() {
	categoriesCmd.PersistentFlags().DurationVar(&categoriesFlags.timeout, "timeout", time.Minute, "Deadline for the whole operation")
	categoriesSyncCmd.Flags().BoolVar(&categoriesFlags.force, "force", false, "Overwrite stored built-in categories")

	categoriesCmd.AddCommand(categoriesMigrateCmd)
	categoriesCmd.AddCommand(categoriesSyncCmd)
}

func withResolver(cmd *cobra.Command, fn func(context.Context, *categories.Resolver) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), categoriesFlags.timeout)
	defer cancel()

	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return fn(ctx, categories.NewResolver(databases.NewCategoryDatabase(s.db), nil, nil))
}

func runCategoriesMigrate(cmd *cobra.Command, _ []string) error {
	return withResolver(cmd, func(ctx context.Context, r *categories.Resolver) error {
		res, err := r.Migrate(ctx)
		if err != nil {
			return err
		}
		if res.Skipped {
			fmt.Fprintln(cmd.OutOrStdout(), "Categories already present, nothing migrated")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d categories\n", res.Added)
		return nil
	})
}

func runCategoriesSync(cmd *cobra.Command, _ []string) error {
	return withResolver(cmd, func(ctx context.Context, r *categories.Resolver) error {
		res, err := r.Sync(ctx, categoriesFlags.force)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d, updated %d categories\n", res.Added, res.Updated)
		return nil
	})
}
