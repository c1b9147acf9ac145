// internal/rules/operators.go
package rules

import (
	"strings"

	"github.com/solatis/displayrules/internal/types"
)

/*
 * Polarity and target id helpers.
 *
 * A descriptor's operator is an include/exclude toggle: the descriptor
 * result is operator == predicate. This is equality, not AND, so an
 * operator of false turns a failing predicate into a match.
 *
 * Target ids are a comma separated list. Entries are trimmed; empty entries
 * are kept so that an empty list never degrades into "no restriction" when
 * passed to variadic predicates such as IsSingle.
 */

// expect applies descriptor polarity to a predicate result.
func expect(operator, actual bool) bool {
	return operator == actual
}

// SplitIDs splits a target id list on "," and trims whitespace.
// Always returns at least one element.
func SplitIDs(ids string) []string {
	parts := strings.Split(ids, types.TargetIDSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// MatchesAny reports whether id or slug equals one of the target entries.
// Empty entries never match. Exported for PageContext implementations.
func MatchesAny(targets []string, id types.ItemID, slug string) bool {
	sid := id.String()
	for _, t := range targets {
		if t == "" {
			continue
		}
		if t == sid || (slug != "" && t == slug) {
			return true
		}
	}
	return false
}
