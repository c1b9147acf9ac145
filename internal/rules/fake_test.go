package rules

import (
	"slices"

	"github.com/solatis/displayrules/internal/types"
)

// fakePage is a PageContext driven by plain fields. Every method call is
// counted so tests can assert short-circuit behavior.
type fakePage struct {
	singularOf      string // post type of a singular view, "" otherwise
	queriedID       types.ItemID
	slug            string
	categories      []string
	tags            []string
	terms           map[string][]string // taxonomy -> term ids of the queried post
	taxArchive      string              // taxonomy of a custom taxonomy archive
	archiveTerm     string              // term id of that archive
	postTypeArchive string
	taxonomies      map[string][]string // post type -> registered taxonomies
	predicates      map[Predicate]bool
	predicateIDs    map[Predicate][]string

	calls int
}

func (f *fakePage) isSingle() bool {
	return f.singularOf != "" && f.singularOf != types.PostTypePage && f.singularOf != types.PostTypeAttachment
}

func (f *fakePage) IsSingularOf(postType string) bool {
	f.calls++
	return f.singularOf != "" && f.singularOf == postType
}

func (f *fakePage) IsSingle(ids ...string) bool {
	f.calls++
	if !f.isSingle() {
		return false
	}
	return len(ids) == 0 || MatchesAny(ids, f.queriedID, f.slug)
}

func (f *fakePage) IsPage(ids ...string) bool {
	f.calls++
	if f.singularOf != types.PostTypePage {
		return false
	}
	return len(ids) == 0 || MatchesAny(ids, f.queriedID, f.slug)
}

func (f *fakePage) InCategory(ids []string) bool {
	f.calls++
	return intersects(f.categories, ids)
}

func (f *fakePage) HasTag(ids []string) bool {
	f.calls++
	return intersects(f.tags, ids)
}

func (f *fakePage) HasTerm(ids []string, taxonomy string, postID types.ItemID) bool {
	f.calls++
	return postID == f.queriedID && intersects(f.terms[taxonomy], ids)
}

func (f *fakePage) IsTaxonomyArchive(taxonomies []string, ids []string) bool {
	f.calls++
	if f.taxArchive == "" {
		return false
	}
	if len(taxonomies) > 0 && !slices.Contains(taxonomies, f.taxArchive) {
		return false
	}
	return len(ids) == 0 || slices.Contains(ids, f.archiveTerm)
}

func (f *fakePage) IsPostTypeArchive(postType string) bool {
	f.calls++
	return f.postTypeArchive != "" && f.postTypeArchive == postType
}

func (f *fakePage) TaxonomiesForPostType(postType string) []string {
	f.calls++
	return f.taxonomies[postType]
}

func (f *fakePage) QueriedID() types.ItemID {
	f.calls++
	return f.queriedID
}

func (f *fakePage) Check(p Predicate, ids []string) bool {
	f.calls++
	if !f.predicates[p] {
		return false
	}
	return len(ids) == 0 || intersects(f.predicateIDs[p], ids)
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if w != "" && slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// singlePost returns a fake viewing post id of type "post".
func singlePost(id types.ItemID) *fakePage {
	return &fakePage{singularOf: types.PostTypePost, queriedID: id}
}

func rule(kind string, operator bool, ids string) types.RuleDescriptor {
	return types.RuleDescriptor{Kind: kind, Operator: operator, TargetIDs: ids}
}
