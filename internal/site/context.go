// Package site provides the page context used to evaluate display rules
// against a concrete page request.
//
// Load resolves everything the request needs from a Catalog up front (the
// queried post, its terms, the taxonomy registry) so the predicate methods
// answer from memory and never fail. Catalog errors surface from Load.
package site

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/solatis/displayrules/internal/rules"
	"github.com/solatis/displayrules/internal/types"
)

// Context implements rules.PageContext for one page request.
type Context struct {
	query      Query
	postType   string
	slug       string
	terms      map[string][]Term   // taxonomy -> terms of the queried post
	registered map[string][]string // post type -> taxonomies
}

var _ rules.PageContext = (*Context)(nil)

// Load builds a Context for q. Singular views require the queried post to
// exist in the catalog; its post type and slug fill empty query fields.
func Load(ctx context.Context, catalog Catalog, q Query) (*Context, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	c := &Context{
		query:      q,
		postType:   q.PostType,
		slug:       q.Slug,
		terms:      make(map[string][]Term),
		registered: make(map[string][]string),
	}

	taxonomies, err := catalog.Taxonomies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomies: %w", err)
	}
	for _, tax := range taxonomies {
		for _, objectType := range tax.ObjectTypes {
			c.registered[objectType] = append(c.registered[objectType], tax.Name)
		}
	}

	if q.View != ViewSingular {
		return c, nil
	}

	post, err := catalog.Post(ctx, q.ObjectID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("queried post %d: %w", q.ObjectID, err)
		}
		return nil, fmt.Errorf("failed to load post %d: %w", q.ObjectID, err)
	}
	if c.postType == "" {
		c.postType = post.Type
	}
	if c.slug == "" {
		c.slug = post.Slug
	}

	terms, err := catalog.PostTerms(ctx, q.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load terms of post %d: %w", q.ObjectID, err)
	}
	for _, t := range terms {
		c.terms[t.Taxonomy] = append(c.terms[t.Taxonomy], t)
	}

	return c, nil
}

// Query returns the request the context was loaded for.
func (c *Context) Query() Query {
	return c.query
}

func (c *Context) singular() bool {
	return c.query.View == ViewSingular
}

func (c *Context) queried(ids []string) bool {
	return len(ids) == 0 || rules.MatchesAny(ids, c.query.ObjectID, c.slug)
}

// hasAnyTerm reports whether the queried post has a term of taxonomy whose
// id or slug is listed in ids.
func (c *Context) hasAnyTerm(taxonomy string, ids []string) bool {
	for _, t := range c.terms[taxonomy] {
		if rules.MatchesAny(ids, t.ID, t.Slug) {
			return true
		}
	}
	return false
}

func (c *Context) IsSingularOf(postType string) bool {
	return c.singular() && c.postType == postType
}

func (c *Context) IsSingle(ids ...string) bool {
	if !c.singular() || c.postType == types.PostTypePage || c.postType == types.PostTypeAttachment {
		return false
	}
	return c.queried(ids)
}

func (c *Context) IsPage(ids ...string) bool {
	if !c.IsSingularOf(types.PostTypePage) {
		return false
	}
	return c.queried(ids)
}

func (c *Context) InCategory(ids []string) bool {
	return c.singular() && c.hasAnyTerm(types.TaxonomyCategory, ids)
}

func (c *Context) HasTag(ids []string) bool {
	return c.singular() && c.hasAnyTerm(types.TaxonomyTag, ids)
}

// HasTerm only knows the terms of the queried post; other post ids report
// false.
func (c *Context) HasTerm(ids []string, taxonomy string, postID types.ItemID) bool {
	if !c.singular() || postID != c.query.ObjectID {
		return false
	}
	return c.hasAnyTerm(taxonomy, ids)
}

func (c *Context) IsTaxonomyArchive(taxonomies []string, ids []string) bool {
	if c.query.View != ViewTaxonomy {
		return false
	}
	if len(taxonomies) > 0 && !slices.Contains(taxonomies, c.query.Taxonomy) {
		return false
	}
	return c.queried(ids)
}

func (c *Context) IsPostTypeArchive(postType string) bool {
	return c.query.View == ViewPostTypeArchive && c.postType == postType
}

func (c *Context) TaxonomiesForPostType(postType string) []string {
	return slices.Clone(c.registered[postType])
}

func (c *Context) QueriedID() types.ItemID {
	return c.query.ObjectID
}

// Check evaluates a named view predicate. For is_singular the ids are post
// types; for the other predicates they are object ids or slugs.
func (c *Context) Check(p rules.Predicate, ids []string) bool {
	view := c.query.View

	switch p {
	case rules.PredicateArchive:
		return view.IsArchive()
	case rules.PredicateCategory:
		return view == ViewCategory && c.queried(ids)
	case rules.PredicateTag:
		return view == ViewTag && c.queried(ids)
	case rules.PredicateAuthor:
		return view == ViewAuthor && c.queried(ids)
	case rules.PredicateDate:
		return view == ViewDate
	case rules.PredicateFrontPage:
		return c.query.FrontPage
	case rules.PredicateHome:
		return view == ViewHome
	case rules.PredicateSearch:
		return view == ViewSearch
	case rules.PredicateNotFound:
		return view == ViewNotFound
	case rules.PredicateAttachment:
		return c.IsSingularOf(types.PostTypeAttachment) && c.queried(ids)
	case rules.PredicateSingular:
		if !c.singular() {
			return false
		}
		return len(ids) == 0 || slices.Contains(ids, c.postType)
	case rules.PredicatePage:
		return c.IsPage(ids...)
	case rules.PredicateSingle:
		return c.IsSingle(ids...)
	default:
		return false
	}
}
