package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/displayrules/internal/core/db"
	"github.com/solatis/displayrules/internal/core/input"
)

var importCatalogCmd = &cobra.Command{
	Use:   "import-catalog SNAPSHOT",
	Short: "Replace the catalog with a YAML or JSON snapshot",
	Long: `Reads a snapshot of posts, terms, term relationships and taxonomy
registrations and replaces the catalog contents in one transaction.
Pending migrations are applied first.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportCatalog,
}

func init() {
	rootCmd.AddCommand(importCatalogCmd)
}

func runImportCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := loadSession(cmd)
	if err != nil {
		return err
	}

	snap, err := input.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	database, err := sess.openDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.MigrateUp(ctx, database, sess.logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	catalog, err := db.NewCatalog(database, sess.logger)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	stats, err := catalog.Import(ctx, snap)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d posts, %d terms, %d relationships, %d taxonomies (%d relationships skipped)\n",
		stats.Posts, stats.Terms, stats.Relationships, stats.Taxonomies, stats.Skipped)
	return nil
}
