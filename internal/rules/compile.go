// internal/rules/compile.go
package rules

import (
	"github.com/solatis/displayrules/internal/types"
)

/*
 * Rule set compilation.
 *
 * Compiles types.RuleSet to CompiledRuleSet: kind tokens decoded into Kind
 * plus embedded parameters, target id lists split and trimmed, page_type
 * predicate names resolved.
 *
 * Compilation workflow:
 *   1. Reject empty rule sets
 *   2. Decode each kind token (fixed table or custom post decoder)
 *   3. Split target ids on "," and trim whitespace
 *   4. Resolve predicate names for page_type and archive families
 *
 * Descriptor order is preserved exactly. Evaluation reports the first
 * matching descriptor and must not consult any descriptor after it.
 *
 * There is no upper bound on descriptor count here; the service enforces
 * server.max_rules before compiling.
 *
 * Unknown kind tokens are not errors: they compile to KindUnknown and are
 * skipped as non-matching during evaluation.
 */

// CompiledDescriptor is a pre-processed descriptor ready for evaluation.
type CompiledDescriptor struct {
	Token     string    // original kind token
	Kind      Kind      // decoded kind
	Operator  bool      // expected polarity
	TargetIDs []string  // trimmed target ids; never empty, may contain ""
	Predicate Predicate // page_type and archive families
	PostType  string    // custom post families
	Taxonomy  string    // custom_post_tax
}

// CompiledRuleSet is fully pre-processed and ready for evaluation.
type CompiledRuleSet struct {
	Descriptors []CompiledDescriptor // in configuration order
}

// Compile validates and pre-processes a rule set for evaluation.
func Compile(set types.RuleSet) (*CompiledRuleSet, error) {
	if len(set) == 0 {
		return nil, types.ErrEmptyRuleSet
	}

	compiled := &CompiledRuleSet{
		Descriptors: make([]CompiledDescriptor, 0, len(set)),
	}
	for _, d := range set {
		compiled.Descriptors = append(compiled.Descriptors, compileDescriptor(d))
	}

	return compiled, nil
}

// compileDescriptor decodes a single descriptor.
func compileDescriptor(d types.RuleDescriptor) CompiledDescriptor {
	pk := parseKind(d.Kind)

	cd := CompiledDescriptor{
		Token:     d.Kind,
		Kind:      pk.kind,
		Operator:  d.Operator,
		TargetIDs: SplitIDs(d.TargetIDs),
		Predicate: pk.predicate,
		PostType:  pk.postType,
		Taxonomy:  pk.taxonomy,
	}

	if cd.Kind == KindPageType {
		cd.Predicate = ParsePredicate(d.PageType)
	}

	return cd
}
