// internal/rules/evaluate.go
package rules

import (
	"github.com/solatis/displayrules/internal/types"
)

/*
 * Rule set evaluation.
 *
 * Evaluates a CompiledRuleSet against a PageContext with OR semantics:
 * descriptors are visited in configuration order and the first match stops
 * evaluation. No descriptor after the match touches the PageContext.
 *
 * Evaluation flow:
 *   1. Abort early (invalid item id, empty or uncompilable set) -> no match
 *   2. For each descriptor: dispatch on Kind
 *   3. Record index, kind and token of the first match for diagnostics
 *
 * Polarity:
 *   - post_selected, post_category, post_tag, page_type, page_selected,
 *     _is_* and the selected/tax/taxonomy custom post kinds compare the
 *     predicate against the descriptor operator
 *   - everywhere, post_all, page_all, is_* archive kinds and the all/archive
 *     custom post kinds return the predicate as-is
 *
 * Unresolved predicate names (page_type naming an unknown predicate) make
 * the descriptor non-matching regardless of operator.
 */

// MatchResult contains the outcome of rule set evaluation.
type MatchResult struct {
	Matched bool
	ItemID  types.ItemID
	Index   int    // position of the matching descriptor, -1 if none
	Kind    Kind   // decoded kind of the matching descriptor
	Token   string // raw kind token of the matching descriptor
}

// noMatch returns the fail-closed result for itemID.
func noMatch(itemID types.ItemID) MatchResult {
	return MatchResult{ItemID: itemID, Index: -1}
}

// evaluateCompiled visits descriptors in order and stops on the first match.
func (e *Evaluator) evaluateCompiled(itemID types.ItemID, rs *CompiledRuleSet) MatchResult {
	result := noMatch(itemID)

	for i := range rs.Descriptors {
		d := &rs.Descriptors[i]
		if d.Kind == KindUnknown {
			e.logger.Debug("skipping unknown rule kind",
				"item_id", int64(itemID), "index", i, "kind", d.Token)
			continue
		}
		if !e.matchDescriptor(d) {
			continue
		}

		result.Matched = true
		result.Index = i
		result.Kind = d.Kind
		result.Token = d.Token
		e.logger.Debug("rule matched",
			"item_id", int64(itemID), "index", i, "kind", d.Token)
		return result
	}

	return result
}

// matchDescriptor evaluates a single compiled descriptor.
func (e *Evaluator) matchDescriptor(d *CompiledDescriptor) bool {
	page := e.page

	switch d.Kind {
	case KindEverywhere:
		return true

	case KindPostAll:
		return page.IsSingularOf(types.PostTypePost)

	case KindPostSelected:
		return expect(d.Operator, page.IsSingle(d.TargetIDs...))

	case KindPostCategory:
		if !page.IsSingle() {
			return false
		}
		return expect(d.Operator, page.InCategory(d.TargetIDs))

	case KindPostTag:
		if !page.IsSingle() {
			return false
		}
		return expect(d.Operator, page.HasTag(d.TargetIDs))

	case KindPageAll:
		return page.IsSingularOf(types.PostTypePage)

	case KindPageType:
		if d.Predicate == PredicateUnknown {
			e.logger.Warn("page_type names an unknown predicate", "kind", d.Token)
			return false
		}
		return expect(d.Operator, page.Check(d.Predicate, nil))

	case KindPageSelected:
		if !page.IsPage() {
			return false
		}
		return expect(d.Operator, page.IsPage(d.TargetIDs...))

	case KindArchive:
		return page.Check(d.Predicate, nil)

	case KindArchiveTerms:
		return expect(d.Operator, page.Check(d.Predicate, d.TargetIDs))

	case KindCustomPostSelected, KindCustomPostTerms, KindCustomPostTaxonomy,
		KindCustomPostAll, KindCustomPostArchive:
		return matchCustomPost(page, d)

	default:
		return false
	}
}
