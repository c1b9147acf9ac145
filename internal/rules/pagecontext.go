// internal/rules/pagecontext.go
package rules

import "github.com/solatis/displayrules/internal/types"

// PageContext exposes the query state of the page being rendered.
// Implementations answer from a preloaded view (see internal/site) or a
// fake in tests. All methods are read-only.
type PageContext interface {
	// IsSingularOf reports a singular view of the given post type.
	IsSingularOf(postType string) bool
	// IsSingle reports a singular view of any non-page post type. With ids,
	// the queried post must also match one of them by id or slug.
	IsSingle(ids ...string) bool
	// IsPage reports a singular page view, optionally restricted to ids.
	IsPage(ids ...string) bool
	// InCategory reports whether the queried post is in any listed category.
	InCategory(ids []string) bool
	// HasTag reports whether the queried post has any listed tag.
	HasTag(ids []string) bool
	// HasTerm reports whether postID has any listed term in taxonomy.
	HasTerm(ids []string, taxonomy string, postID types.ItemID) bool
	// IsTaxonomyArchive reports a custom taxonomy archive view. A non-empty
	// taxonomies list restricts the archive taxonomy; ids restrict the term.
	IsTaxonomyArchive(taxonomies []string, ids []string) bool
	// IsPostTypeArchive reports an archive listing of postType.
	IsPostTypeArchive(postType string) bool
	// TaxonomiesForPostType lists taxonomies registered for postType.
	TaxonomiesForPostType(postType string) []string
	// QueriedID is the id of the queried object (post, term or author).
	QueriedID() types.ItemID
	// Check evaluates a named view predicate, optionally restricted to ids.
	Check(p Predicate, ids []string) bool
}

// Predicate is a named view predicate. It replaces call-by-name dispatch
// for page_type descriptors and the archive kind families.
type Predicate int

const (
	PredicateUnknown Predicate = iota
	PredicateArchive
	PredicateCategory
	PredicateTag
	PredicateAuthor
	PredicateDate
	PredicateFrontPage
	PredicateHome
	PredicateSearch
	PredicateNotFound
	PredicateAttachment
	PredicateSingular
	PredicatePage
	PredicateSingle
)

var predicateNames = [...]string{
	PredicateUnknown:    "unknown",
	PredicateArchive:    "is_archive",
	PredicateCategory:   "is_category",
	PredicateTag:        "is_tag",
	PredicateAuthor:     "is_author",
	PredicateDate:       "is_date",
	PredicateFrontPage:  "is_front_page",
	PredicateHome:       "is_home",
	PredicateSearch:     "is_search",
	PredicateNotFound:   "is_404",
	PredicateAttachment: "is_attachment",
	PredicateSingular:   "is_singular",
	PredicatePage:       "is_page",
	PredicateSingle:     "is_single",
}

var predicatesByName = func() map[string]Predicate {
	m := make(map[string]Predicate, len(predicateNames)-1)
	for p, name := range predicateNames[1:] {
		m[name] = Predicate(p + 1)
	}
	return m
}()

// ParsePredicate resolves a predicate name. Unknown names yield PredicateUnknown.
func ParsePredicate(name string) Predicate {
	return predicatesByName[name]
}

func (p Predicate) String() string {
	if p < 0 || int(p) >= len(predicateNames) {
		return predicateNames[PredicateUnknown]
	}
	return predicateNames[p]
}
