package db

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/displayrules/internal/site"
	"github.com/solatis/displayrules/internal/types"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	database, err := Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func migratedCatalog(t *testing.T) *Catalog {
	t.Helper()
	database := openTestDB(t)
	require.NoError(t, MigrateUp(context.Background(), database, slog.New(slog.DiscardHandler)))
	catalog, err := NewCatalog(database, nil)
	require.NoError(t, err)
	return catalog
}

func testSnapshot() site.Snapshot {
	return site.Snapshot{
		Posts: []site.Post{
			{ID: 7, Type: "post", Slug: "hello-world", AuthorID: 2},
			{ID: 30, Type: "book", Slug: "dune"},
		},
		Terms: []site.Term{
			{ID: 12, Taxonomy: "post_tag", Slug: "go", Name: "Go"},
			{ID: 3, Taxonomy: "category", Slug: "news", Name: "News"},
			{ID: 11, Taxonomy: "genre", Slug: "scifi", Name: "Science Fiction"},
		},
		Relationships: []site.Relationship{
			{PostID: 7, TermID: 12},
			{PostID: 7, TermID: 3},
			{PostID: 30, TermID: 11},
			{PostID: 30, TermID: 999},
			{PostID: 8, TermID: 3},
		},
		Taxonomies: []site.Taxonomy{
			{Name: "post_tag", ObjectTypes: []string{"post"}},
			{Name: "genre", ObjectTypes: []string{"book", "event"}},
			{Name: "category", ObjectTypes: []string{"post"}},
			{Name: "unused"},
		},
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{url: "sqlite://catalog.db", wantDriver: "sqlite3", wantSource: "file:catalog.db?_foreign_keys=on"},
		{url: "sqlite:///var/lib/dr.db", wantDriver: "sqlite3", wantSource: "file:/var/lib/dr.db?_foreign_keys=on"},
		{url: "sqlite:///x.db?_foreign_keys=off", wantDriver: "sqlite3", wantSource: "file:/x.db?_foreign_keys=off"},
		{url: "postgres://u:p@localhost:5432/dr?sslmode=disable", wantDriver: "postgres", wantSource: "postgres://u:p@localhost:5432/dr?sslmode=disable"},
		{url: "postgresql://localhost/dr", wantDriver: "postgres", wantSource: "postgresql://localhost/dr"},
		{url: "mysql://localhost/dr", wantErr: true},
		{url: "sqlite://", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, source, err := parseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestSplitStatements(t *testing.T) {
	sql := `-- header comment
CREATE TABLE a (id INTEGER);

-- second
CREATE INDEX idx ON a (id);
`
	got := splitStatements(sql)
	assert.Equal(t, []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX idx ON a (id)"}, got)
}

func TestMigrateUp_Idempotent(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	statuses, err := MigrateStatus(ctx, database)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, s := range statuses {
		assert.False(t, s.Applied, s.ID)
	}

	require.NoError(t, MigrateUp(ctx, database, slog.New(slog.DiscardHandler)))
	require.NoError(t, MigrateUp(ctx, database, slog.New(slog.DiscardHandler)))

	statuses, err = MigrateStatus(ctx, database)
	require.NoError(t, err)
	for _, s := range statuses {
		assert.True(t, s.Applied, s.ID)
		assert.NotNil(t, s.AppliedAt, s.ID)
		assert.Len(t, s.Checksum, 64)
	}
}

func TestMigrateUp_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	require.NoError(t, MigrateUp(ctx, database, slog.New(slog.DiscardHandler)))

	_, err := database.ExecContext(ctx, "UPDATE migrations SET checksum = 'tampered'")
	require.NoError(t, err)

	err = MigrateUp(ctx, database, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestCatalog_Import(t *testing.T) {
	ctx := context.Background()
	catalog := migratedCatalog(t)

	stats, err := catalog.Import(ctx, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Posts: 2, Terms: 3, Relationships: 3, Taxonomies: 4, Skipped: 2}, stats)

	n, err := catalog.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a second import replaces the first
	stats, err = catalog.Import(ctx, site.Snapshot{Posts: []site.Post{{ID: 1, Type: "page", Slug: "home"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Posts)

	_, err = catalog.Post(ctx, 7)
	assert.ErrorIs(t, err, types.ErrNotFound)
	p, err := catalog.Post(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "page", p.Type)
}

func TestCatalog_ImportRejectsInvalidIDs(t *testing.T) {
	ctx := context.Background()
	catalog := migratedCatalog(t)

	_, err := catalog.Import(ctx, testSnapshot())
	require.NoError(t, err)

	_, err = catalog.Import(ctx, site.Snapshot{Posts: []site.Post{{ID: 0, Type: "post"}}})
	require.ErrorIs(t, err, types.ErrInvalidItemID)

	// the failed import rolled back
	n, err := catalog.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCatalog_Reads(t *testing.T) {
	ctx := context.Background()
	catalog := migratedCatalog(t)
	_, err := catalog.Import(ctx, testSnapshot())
	require.NoError(t, err)

	post, err := catalog.Post(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, site.Post{ID: 7, Type: "post", Slug: "hello-world", AuthorID: 2}, post)

	terms, err := catalog.PostTerms(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []site.Term{
		{ID: 3, Taxonomy: "category", Slug: "news", Name: "News"},
		{ID: 12, Taxonomy: "post_tag", Slug: "go", Name: "Go"},
	}, terms)

	terms, err = catalog.PostTerms(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, terms)

	taxonomies, err := catalog.Taxonomies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []site.Taxonomy{
		{Name: "category", ObjectTypes: []string{"post"}},
		{Name: "genre", ObjectTypes: []string{"book", "event"}},
		{Name: "post_tag", ObjectTypes: []string{"post"}},
		{Name: "unused"},
	}, taxonomies)
}

func TestCatalog_MatchesMemoryCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := migratedCatalog(t)
	_, err := catalog.Import(ctx, testSnapshot())
	require.NoError(t, err)
	memory := site.NewMemoryCatalog(testSnapshot())

	for _, q := range []site.Query{
		{View: site.ViewSingular, ObjectID: 7},
		{View: site.ViewSingular, ObjectID: 30},
		{View: site.ViewTaxonomy, Taxonomy: "genre", ObjectID: 11},
	} {
		fromDB, err := site.Load(ctx, catalog, q)
		require.NoError(t, err)
		fromMemory, err := site.Load(ctx, memory, q)
		require.NoError(t, err)

		assert.Equal(t, fromMemory.InCategory([]string{"news"}), fromDB.InCategory([]string{"news"}))
		assert.Equal(t, fromMemory.HasTerm([]string{"scifi"}, "genre", q.ObjectID), fromDB.HasTerm([]string{"scifi"}, "genre", q.ObjectID))
		assert.Equal(t, fromMemory.TaxonomiesForPostType("book"), fromDB.TaxonomiesForPostType("book"))
		assert.Equal(t, fromMemory.IsSingle("dune"), fromDB.IsSingle("dune"))
	}
}
