// internal/rules/custompost.go
package rules

import "strings"

/*
 * Custom post type descriptors.
 *
 * Custom post tokens carry their parameter inside the token:
 *   - custom_post_selected_<posttype>
 *   - custom_post_tax_<anything>|<taxonomy>
 *   - custom_post_taxonomy_<posttype>
 *   - custom_post_all_<posttype>
 *   - custom_post_archive_<posttype>
 *
 * Sub-kinds are tested by substring containment in the order above; the
 * first hit wins. "custom_post_tax_" does not occur inside
 * "custom_post_taxonomy_", so the two never collide.
 */

const (
	customPostSelected = "custom_post_selected"
	customPostTerms    = "custom_post_tax_"
	customPostTaxonomy = "custom_post_taxonomy"
	customPostAll      = "custom_post_all"
	customPostArchive  = "custom_post_archive"

	taxonomySeparator = "|"
)

// parseCustomPostKind decodes a token containing customPostMarker.
func parseCustomPostKind(token string) parsedKind {
	switch {
	case strings.Contains(token, customPostSelected):
		return parsedKind{
			kind:     KindCustomPostSelected,
			postType: strings.ReplaceAll(token, customPostSelected+"_", ""),
		}
	case strings.Contains(token, customPostTerms):
		parts := strings.Split(token, taxonomySeparator)
		if len(parts) < 2 || parts[1] == "" {
			return parsedKind{kind: KindUnknown}
		}
		return parsedKind{kind: KindCustomPostTerms, taxonomy: parts[1]}
	case strings.Contains(token, customPostTaxonomy):
		return parsedKind{
			kind:     KindCustomPostTaxonomy,
			postType: strings.ReplaceAll(token, customPostTaxonomy+"_", ""),
		}
	case strings.Contains(token, customPostAll):
		return parsedKind{
			kind:     KindCustomPostAll,
			postType: strings.ReplaceAll(token, customPostAll+"_", ""),
		}
	case strings.Contains(token, customPostArchive):
		return parsedKind{
			kind:     KindCustomPostArchive,
			postType: strings.ReplaceAll(token, customPostArchive+"_", ""),
		}
	default:
		return parsedKind{kind: KindUnknown}
	}
}

// matchCustomPost applies a compiled custom post descriptor.
func matchCustomPost(page PageContext, d *CompiledDescriptor) bool {
	switch d.Kind {
	case KindCustomPostSelected:
		if !page.IsSingularOf(d.PostType) {
			return false
		}
		return expect(d.Operator, page.IsSingle(d.TargetIDs...))

	case KindCustomPostTerms:
		if !page.IsSingle() {
			return false
		}
		return expect(d.Operator, page.HasTerm(d.TargetIDs, d.Taxonomy, page.QueriedID()))

	case KindCustomPostTaxonomy:
		if !page.IsTaxonomyArchive(nil, nil) {
			return false
		}
		taxonomies := page.TaxonomiesForPostType(d.PostType)
		return expect(d.Operator, inTaxonomyArchive(page, taxonomies, d.TargetIDs))

	case KindCustomPostAll:
		return page.IsSingularOf(d.PostType)

	case KindCustomPostArchive:
		return page.IsPostTypeArchive(d.PostType)

	default:
		return false
	}
}

// inTaxonomyArchive checks the archive against the post type's taxonomies.
// A post type without registered taxonomies cannot own the archive.
func inTaxonomyArchive(page PageContext, taxonomies, ids []string) bool {
	if len(taxonomies) == 0 {
		return false
	}
	return page.IsTaxonomyArchive(taxonomies, ids)
}
