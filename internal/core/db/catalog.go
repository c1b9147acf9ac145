package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/displayrules/internal/site"
	"github.com/solatis/displayrules/internal/types"
)

// Catalog is a site.Catalog backed by the catalog tables.
type Catalog struct {
	db      *sqlx.DB
	queries *Queries
	logger  *slog.Logger
}

var _ site.Catalog = (*Catalog)(nil)

// NewCatalog loads the named catalog queries for db.
func NewCatalog(db *sqlx.DB, logger *slog.Logger) (*Catalog, error) {
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{db: db, queries: queries, logger: logger}, nil
}

func (c *Catalog) Post(ctx context.Context, id types.ItemID) (site.Post, error) {
	var p site.Post
	if err := c.queries.Get(ctx, "get-post", &p, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return site.Post{}, types.ErrNotFound
		}
		return site.Post{}, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return p, nil
}

func (c *Catalog) PostTerms(ctx context.Context, id types.ItemID) ([]site.Term, error) {
	terms := []site.Term{}
	if err := c.queries.Select(ctx, "list-post-terms", &terms, id); err != nil {
		return nil, fmt.Errorf("failed to list terms of post %d: %w", id, err)
	}
	return terms, nil
}

type taxonomyRow struct {
	Taxonomy   string `db:"taxonomy"`
	ObjectType string `db:"object_type"`
}

func (c *Catalog) Taxonomies(ctx context.Context) ([]site.Taxonomy, error) {
	var rows []taxonomyRow
	if err := c.queries.Select(ctx, "list-taxonomies", &rows); err != nil {
		return nil, fmt.Errorf("failed to list taxonomies: %w", err)
	}

	// rows are ordered by taxonomy name
	var taxonomies []site.Taxonomy
	for _, r := range rows {
		if n := len(taxonomies); n == 0 || taxonomies[n-1].Name != r.Taxonomy {
			taxonomies = append(taxonomies, site.Taxonomy{Name: r.Taxonomy})
		}
		if r.ObjectType != "" {
			last := &taxonomies[len(taxonomies)-1]
			last.ObjectTypes = append(last.ObjectTypes, r.ObjectType)
		}
	}
	return taxonomies, nil
}

// ImportStats counts the rows written by Import.
type ImportStats struct {
	Posts         int
	Terms         int
	Relationships int
	Taxonomies    int
	Skipped       int // relationships naming an unknown post or term
}

// Import replaces the catalog contents with snap in a single transaction.
func (c *Catalog) Import(ctx context.Context, snap site.Snapshot) (ImportStats, error) {
	var stats ImportStats

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	q := c.queries.WithTx(tx)

	for _, name := range []string{
		"delete-term-relationships",
		"delete-taxonomy-object-types",
		"delete-taxonomies",
		"delete-terms",
		"delete-posts",
	} {
		if _, err := q.Exec(ctx, name); err != nil {
			return stats, fmt.Errorf("failed to clear catalog (%s): %w", name, err)
		}
	}

	posts := make(map[types.ItemID]bool, len(snap.Posts))
	for _, p := range snap.Posts {
		if !p.ID.Valid() {
			return stats, fmt.Errorf("post %d: %w", p.ID, types.ErrInvalidItemID)
		}
		if _, err := q.Exec(ctx, "insert-post", p.ID, p.Type, p.Slug, p.AuthorID); err != nil {
			return stats, fmt.Errorf("failed to insert post %d: %w", p.ID, err)
		}
		posts[p.ID] = true
		stats.Posts++
	}

	terms := make(map[types.ItemID]bool, len(snap.Terms))
	for _, t := range snap.Terms {
		if !t.ID.Valid() {
			return stats, fmt.Errorf("term %d: %w", t.ID, types.ErrInvalidItemID)
		}
		if _, err := q.Exec(ctx, "insert-term", t.ID, t.Taxonomy, t.Slug, t.Name); err != nil {
			return stats, fmt.Errorf("failed to insert term %d: %w", t.ID, err)
		}
		terms[t.ID] = true
		stats.Terms++
	}

	for _, r := range snap.Relationships {
		if !posts[r.PostID] || !terms[r.TermID] {
			stats.Skipped++
			continue
		}
		if _, err := q.Exec(ctx, "insert-term-relationship", r.PostID, r.TermID); err != nil {
			return stats, fmt.Errorf("failed to relate post %d to term %d: %w", r.PostID, r.TermID, err)
		}
		stats.Relationships++
	}

	for _, tax := range snap.Taxonomies {
		if _, err := q.Exec(ctx, "insert-taxonomy", tax.Name); err != nil {
			return stats, fmt.Errorf("failed to insert taxonomy %s: %w", tax.Name, err)
		}
		for _, objectType := range tax.ObjectTypes {
			if _, err := q.Exec(ctx, "insert-taxonomy-object-type", tax.Name, objectType); err != nil {
				return stats, fmt.Errorf("failed to register taxonomy %s for %s: %w", tax.Name, objectType, err)
			}
		}
		stats.Taxonomies++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("failed to commit import: %w", err)
	}

	c.logger.Info("catalog imported",
		"posts", stats.Posts,
		"terms", stats.Terms,
		"relationships", stats.Relationships,
		"taxonomies", stats.Taxonomies,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

// CountPosts returns the number of posts in the catalog.
func (c *Catalog) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := c.queries.Get(ctx, "count-posts", &n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}
