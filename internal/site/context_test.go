package site

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/displayrules/internal/rules"
	"github.com/solatis/displayrules/internal/types"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Posts: []Post{
			{ID: 7, Type: "post", Slug: "hello-world", AuthorID: 2},
			{ID: 21, Type: "page", Slug: "about"},
			{ID: 30, Type: "book", Slug: "dune"},
			{ID: 40, Type: "attachment", Slug: "cover-jpg"},
		},
		Terms: []Term{
			{ID: 3, Taxonomy: "category", Slug: "news", Name: "News"},
			{ID: 12, Taxonomy: "post_tag", Slug: "go", Name: "Go"},
			{ID: 11, Taxonomy: "genre", Slug: "scifi", Name: "Science Fiction"},
		},
		Relationships: []Relationship{
			{PostID: 7, TermID: 3},
			{PostID: 7, TermID: 12},
			{PostID: 30, TermID: 11},
			{PostID: 30, TermID: 999},
		},
		Taxonomies: []Taxonomy{
			{Name: "category", ObjectTypes: []string{"post"}},
			{Name: "post_tag", ObjectTypes: []string{"post"}},
			{Name: "genre", ObjectTypes: []string{"book"}},
		},
	}
}

func load(t *testing.T, q Query) *Context {
	t.Helper()
	c, err := Load(context.Background(), NewMemoryCatalog(testSnapshot()), q)
	require.NoError(t, err)
	return c
}

type failingCatalog struct {
	MemoryCatalog
	err error
}

func (f *failingCatalog) Taxonomies(context.Context) ([]Taxonomy, error) {
	return nil, f.err
}

func TestLoad_Errors(t *testing.T) {
	catalog := NewMemoryCatalog(testSnapshot())
	ctx := context.Background()

	_, err := Load(ctx, catalog, Query{})
	assert.ErrorIs(t, err, types.ErrUnknownView)

	_, err = Load(ctx, catalog, Query{View: ViewSingular})
	assert.ErrorIs(t, err, types.ErrInvalidItemID)

	_, err = Load(ctx, catalog, Query{View: ViewSingular, ObjectID: 404})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = Load(ctx, catalog, Query{View: ViewTaxonomy})
	assert.Error(t, err)

	_, err = Load(ctx, catalog, Query{View: View(42)})
	assert.ErrorIs(t, err, types.ErrUnknownView)

	boom := errors.New("connection reset")
	_, err = Load(ctx, &failingCatalog{err: boom}, Query{View: ViewHome})
	assert.ErrorIs(t, err, boom)
}

func TestContext_SinglePost(t *testing.T) {
	c := load(t, Query{View: ViewSingular, ObjectID: 7})

	assert.True(t, c.IsSingularOf("post"))
	assert.False(t, c.IsSingularOf("page"))
	assert.True(t, c.IsSingle())
	assert.True(t, c.IsSingle("5", "7"))
	assert.True(t, c.IsSingle("hello-world"))
	assert.False(t, c.IsSingle("8"))
	assert.False(t, c.IsPage())
	assert.True(t, c.InCategory([]string{"3"}))
	assert.True(t, c.InCategory([]string{"news"}))
	assert.False(t, c.InCategory([]string{"4"}))
	assert.True(t, c.HasTag([]string{"go"}))
	assert.True(t, c.HasTerm([]string{"12"}, "post_tag", 7))
	assert.False(t, c.HasTerm([]string{"12"}, "post_tag", 8))
	assert.Equal(t, types.ItemID(7), c.QueriedID())
	assert.Equal(t, []string{"category", "post_tag"}, c.TaxonomiesForPostType("post"))
	assert.True(t, c.Check(rules.PredicateSingular, nil))
	assert.True(t, c.Check(rules.PredicateSingular, []string{"page", "post"}))
	assert.False(t, c.Check(rules.PredicateArchive, nil))
}

func TestContext_Page(t *testing.T) {
	c := load(t, Query{View: ViewSingular, ObjectID: 21, FrontPage: true})

	assert.True(t, c.IsPage())
	assert.True(t, c.IsPage("about"))
	assert.False(t, c.IsPage("22"))
	assert.False(t, c.IsSingle())
	assert.True(t, c.Check(rules.PredicateFrontPage, nil))
	assert.True(t, c.Check(rules.PredicatePage, []string{"21"}))
	assert.False(t, c.Check(rules.PredicateSingle, nil))
}

func TestContext_Attachment(t *testing.T) {
	c := load(t, Query{View: ViewSingular, ObjectID: 40})

	assert.False(t, c.IsSingle())
	assert.True(t, c.Check(rules.PredicateAttachment, nil))
	assert.True(t, c.Check(rules.PredicateAttachment, []string{"cover-jpg"}))
}

func TestContext_Archives(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		check func(t *testing.T, c *Context)
	}{
		{
			name:  "category archive",
			query: Query{View: ViewCategory, ObjectID: 3, Slug: "news"},
			check: func(t *testing.T, c *Context) {
				assert.True(t, c.Check(rules.PredicateArchive, nil))
				assert.True(t, c.Check(rules.PredicateCategory, nil))
				assert.True(t, c.Check(rules.PredicateCategory, []string{"news"}))
				assert.False(t, c.Check(rules.PredicateCategory, []string{"4"}))
				assert.False(t, c.Check(rules.PredicateTag, nil))
				assert.False(t, c.IsTaxonomyArchive(nil, nil))
			},
		},
		{
			name:  "custom taxonomy archive",
			query: Query{View: ViewTaxonomy, Taxonomy: "genre", ObjectID: 11, Slug: "scifi"},
			check: func(t *testing.T, c *Context) {
				assert.True(t, c.IsTaxonomyArchive(nil, nil))
				assert.True(t, c.IsTaxonomyArchive([]string{"genre"}, []string{"scifi"}))
				assert.False(t, c.IsTaxonomyArchive([]string{"venue"}, nil))
				assert.False(t, c.IsTaxonomyArchive(nil, []string{"12"}))
				assert.Equal(t, []string{"genre"}, c.TaxonomiesForPostType("book"))
			},
		},
		{
			name:  "author archive",
			query: Query{View: ViewAuthor, ObjectID: 2, Slug: "admin"},
			check: func(t *testing.T, c *Context) {
				assert.True(t, c.Check(rules.PredicateAuthor, []string{"admin"}))
				assert.False(t, c.Check(rules.PredicateAuthor, []string{"3"}))
			},
		},
		{
			name:  "post type archive",
			query: Query{View: ViewPostTypeArchive, PostType: "book"},
			check: func(t *testing.T, c *Context) {
				assert.True(t, c.IsPostTypeArchive("book"))
				assert.False(t, c.IsPostTypeArchive("event"))
				assert.True(t, c.Check(rules.PredicateArchive, nil))
				assert.False(t, c.IsSingularOf("book"))
			},
		},
		{
			name:  "search",
			query: Query{View: ViewSearch},
			check: func(t *testing.T, c *Context) {
				assert.True(t, c.Check(rules.PredicateSearch, nil))
				assert.False(t, c.Check(rules.PredicateArchive, nil))
				assert.False(t, c.Check(rules.PredicateUnknown, nil))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, load(t, tt.query))
		})
	}
}

func TestContext_EvaluatesRuleSets(t *testing.T) {
	book := load(t, Query{View: ViewSingular, ObjectID: 30})
	post := load(t, Query{View: ViewSingular, ObjectID: 7})
	genre := load(t, Query{View: ViewTaxonomy, Taxonomy: "genre", ObjectID: 11, Slug: "scifi"})

	tests := []struct {
		name string
		page *Context
		set  types.RuleSet
		want bool
	}{
		{
			name: "custom post terms on book",
			page: book,
			set:  types.RuleSet{{Kind: "custom_post_tax_book_genre|genre", Operator: true, TargetIDs: "11"}},
			want: true,
		},
		{
			name: "custom post selected on book by slug",
			page: book,
			set:  types.RuleSet{{Kind: "custom_post_selected_book", Operator: true, TargetIDs: "dune"}},
			want: true,
		},
		{
			name: "excluded category on post",
			page: post,
			set:  types.RuleSet{{Kind: "post_category", Operator: false, TargetIDs: "news"}},
			want: false,
		},
		{
			name: "genre archive owned by book",
			page: genre,
			set:  types.RuleSet{{Kind: "custom_post_taxonomy_book", Operator: true, TargetIDs: "11, 12"}},
			want: true,
		},
		{
			name: "genre archive not owned by post",
			page: genre,
			set:  types.RuleSet{{Kind: "custom_post_taxonomy_post", Operator: true, TargetIDs: "11"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Evaluate(tt.page, 1, tt.set))
		})
	}
}

func TestParseView(t *testing.T) {
	v, err := ParseView(" Post_Type_Archive ")
	require.NoError(t, err)
	assert.Equal(t, ViewPostTypeArchive, v)
	assert.Equal(t, "post_type_archive", v.String())

	_, err = ParseView("unspecified")
	assert.ErrorIs(t, err, types.ErrUnknownView)

	_, err = ParseView("feed")
	assert.ErrorIs(t, err, types.ErrUnknownView)
}
