package site

import (
	"context"
	"sort"

	"github.com/solatis/displayrules/internal/types"
)

// Post is a content item known to the catalog.
type Post struct {
	ID       types.ItemID `json:"id" yaml:"id" db:"post_id"`
	Type     string       `json:"type" yaml:"type" db:"post_type"`
	Slug     string       `json:"slug" yaml:"slug" db:"slug"`
	AuthorID types.ItemID `json:"author_id" yaml:"author_id" db:"author_id"`
}

// Term is a taxonomy term (category, tag or custom taxonomy term).
type Term struct {
	ID       types.ItemID `json:"id" yaml:"id" db:"term_id"`
	Taxonomy string       `json:"taxonomy" yaml:"taxonomy" db:"taxonomy"`
	Slug     string       `json:"slug" yaml:"slug" db:"slug"`
	Name     string       `json:"name" yaml:"name" db:"name"`
}

// Relationship assigns a term to a post.
type Relationship struct {
	PostID types.ItemID `json:"post_id" yaml:"post_id" db:"post_id"`
	TermID types.ItemID `json:"term_id" yaml:"term_id" db:"term_id"`
}

// Taxonomy is a registered taxonomy and the post types it applies to.
type Taxonomy struct {
	Name        string   `json:"name" yaml:"name"`
	ObjectTypes []string `json:"object_types" yaml:"object_types"`
}

// Snapshot is a complete catalog export, used for imports and fixtures.
type Snapshot struct {
	Posts         []Post         `json:"posts" yaml:"posts"`
	Terms         []Term         `json:"terms" yaml:"terms"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
	Taxonomies    []Taxonomy     `json:"taxonomies" yaml:"taxonomies"`
}

// Catalog provides the content data a page context needs.
// Implemented by MemoryCatalog and *db.Catalog.
type Catalog interface {
	// Post returns the post with id, or types.ErrNotFound.
	Post(ctx context.Context, id types.ItemID) (Post, error)
	// PostTerms returns every term assigned to the post, across taxonomies.
	PostTerms(ctx context.Context, id types.ItemID) ([]Term, error)
	// Taxonomies returns all registered taxonomies.
	Taxonomies(ctx context.Context) ([]Taxonomy, error)
}

// MemoryCatalog is a Catalog backed by a Snapshot held in memory.
type MemoryCatalog struct {
	posts      map[types.ItemID]Post
	terms      map[types.ItemID]Term
	postTerms  map[types.ItemID][]types.ItemID
	taxonomies []Taxonomy
}

// NewMemoryCatalog indexes snap. Relationships naming unknown terms are
// ignored.
func NewMemoryCatalog(snap Snapshot) *MemoryCatalog {
	c := &MemoryCatalog{
		posts:      make(map[types.ItemID]Post, len(snap.Posts)),
		terms:      make(map[types.ItemID]Term, len(snap.Terms)),
		postTerms:  make(map[types.ItemID][]types.ItemID),
		taxonomies: append([]Taxonomy(nil), snap.Taxonomies...),
	}
	for _, p := range snap.Posts {
		c.posts[p.ID] = p
	}
	for _, t := range snap.Terms {
		c.terms[t.ID] = t
	}
	for _, r := range snap.Relationships {
		if _, ok := c.terms[r.TermID]; !ok {
			continue
		}
		c.postTerms[r.PostID] = append(c.postTerms[r.PostID], r.TermID)
	}
	sort.Slice(c.taxonomies, func(i, j int) bool {
		return c.taxonomies[i].Name < c.taxonomies[j].Name
	})
	return c
}

func (c *MemoryCatalog) Post(_ context.Context, id types.ItemID) (Post, error) {
	p, ok := c.posts[id]
	if !ok {
		return Post{}, types.ErrNotFound
	}
	return p, nil
}

func (c *MemoryCatalog) PostTerms(_ context.Context, id types.ItemID) ([]Term, error) {
	ids := c.postTerms[id]
	terms := make([]Term, 0, len(ids))
	for _, tid := range ids {
		terms = append(terms, c.terms[tid])
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].ID < terms[j].ID })
	return terms, nil
}

func (c *MemoryCatalog) Taxonomies(_ context.Context) ([]Taxonomy, error) {
	return append([]Taxonomy(nil), c.taxonomies...), nil
}
