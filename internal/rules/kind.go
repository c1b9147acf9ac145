// internal/rules/kind.go
package rules

import "strings"

/*
 * Condition kinds.
 *
 * Kind is the closed set of descriptor categories the evaluator understands.
 * Kind tokens from configuration are parsed once during compilation; tokens
 * that do not name a known kind become KindUnknown and never match.
 *
 * Token families:
 *   - fixed tokens looked up in kindTable ("everywhere", "post_selected", ...)
 *   - archive tokens ("is_category") whose predicate is the token itself
 *   - underscore archive tokens ("_is_category") taking the target id list
 *   - custom post tokens ("custom_post_all_product") carrying an embedded
 *     post type or taxonomy, decoded by parseCustomPostKind
 */

// Kind identifies which page-context predicate a descriptor checks.
type Kind int

const (
	KindUnknown Kind = iota
	KindEverywhere
	KindPostAll
	KindPostSelected
	KindPostCategory
	KindPostTag
	KindPageAll
	KindPageType
	KindPageSelected
	KindArchive
	KindArchiveTerms
	KindCustomPostSelected
	KindCustomPostTerms
	KindCustomPostTaxonomy
	KindCustomPostAll
	KindCustomPostArchive
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindEverywhere:         "everywhere",
	KindPostAll:            "post_all",
	KindPostSelected:       "post_selected",
	KindPostCategory:       "post_category",
	KindPostTag:            "post_tag",
	KindPageAll:            "page_all",
	KindPageType:           "page_type",
	KindPageSelected:       "page_selected",
	KindArchive:            "archive",
	KindArchiveTerms:       "archive_terms",
	KindCustomPostSelected: "custom_post_selected",
	KindCustomPostTerms:    "custom_post_tax",
	KindCustomPostTaxonomy: "custom_post_taxonomy",
	KindCustomPostAll:      "custom_post_all",
	KindCustomPostArchive:  "custom_post_archive",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// IsCustomPost reports whether the kind belongs to the custom post family.
func (k Kind) IsCustomPost() bool {
	return k >= KindCustomPostSelected && k <= KindCustomPostArchive
}

// customPostMarker is the substring that routes a token to the custom post
// decoder before the fixed table is consulted.
const customPostMarker = "custom_post_"

// kindTable maps fixed tokens to kinds.
var kindTable = map[string]Kind{
	"everywhere":    KindEverywhere,
	"post_all":      KindPostAll,
	"post_selected": KindPostSelected,
	"post_category": KindPostCategory,
	"post_tag":      KindPostTag,
	"page_all":      KindPageAll,
	"page_type":     KindPageType,
	"page_selected": KindPageSelected,
	"is_archive":    KindArchive,
	"is_category":   KindArchive,
	"is_tag":        KindArchive,
	"is_author":     KindArchive,
	"is_date":       KindArchive,
	"_is_category":  KindArchiveTerms,
	"_is_tag":       KindArchiveTerms,
	"_is_author":    KindArchiveTerms,
}

// parsedKind is the decoded form of a kind token.
type parsedKind struct {
	kind      Kind
	predicate Predicate // archive families
	postType  string    // custom post families
	taxonomy  string    // custom_post_tax
}

// parseKind decodes a kind token. Unknown tokens yield KindUnknown.
func parseKind(token string) parsedKind {
	if strings.Contains(token, customPostMarker) {
		return parseCustomPostKind(token)
	}

	kind, ok := kindTable[token]
	if !ok {
		return parsedKind{kind: KindUnknown}
	}

	switch kind {
	case KindArchive:
		return parsedKind{kind: kind, predicate: ParsePredicate(token)}
	case KindArchiveTerms:
		return parsedKind{kind: kind, predicate: ParsePredicate(strings.TrimLeft(token, "_"))}
	default:
		return parsedKind{kind: kind}
	}
}
