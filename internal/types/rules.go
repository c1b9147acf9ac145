// internal/types/rules.go
package types

/*
 * Domain types for display rule evaluation.
 *
 * Provides RuleDescriptor, RuleSet and the legacy ConditionSet bag used by
 * internal/rules for compilation and evaluation. These types are
 * wire-format agnostic; decoding from YAML/JSON files and gRPC structs
 * happens at the input/api boundary.
 *
 * Key types:
 *   - RuleDescriptor: one configured condition (kind, polarity, targets)
 *   - RuleSet: ordered sequence of descriptors, combined with OR
 *   - ConditionSet: positional parameter bag produced by external loaders
 *
 * Dependencies: None
 */

// RuleDescriptor is one configured display condition.
type RuleDescriptor struct {
	Kind      string `json:"kind" yaml:"kind"`           // condition category token, e.g. "post_selected"
	Operator  bool   `json:"operator" yaml:"operator"`   // expected polarity: result is Operator == predicate
	TargetIDs string `json:"ids" yaml:"ids"`             // comma separated ids or slugs
	PageType  string `json:"page_type" yaml:"page_type"` // predicate name for page_type descriptors
}

// RuleSet is an ordered list of descriptors. Order decides which descriptor
// is reported as the match; the boolean outcome is a pure OR.
type RuleSet []RuleDescriptor

// ConditionSet is the positional parameter bag stored by authoring tools:
// Show[i], Operator[i], IDs[i] and PageType[i] describe descriptor i.
// Operator and IDs hold loosely typed values (bool/number/string).
// PageType may be omitted entirely when no page_type descriptor is used.
type ConditionSet struct {
	Show     []string `json:"show" yaml:"show"`
	Operator []any    `json:"operator" yaml:"operator"`
	IDs      []any    `json:"ids" yaml:"ids"`
	PageType []string `json:"page_type" yaml:"page_type"`
}

// Len returns the number of descriptors named by Show.
func (c *ConditionSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Show)
}

// Validate checks the positional invariant: every parallel array has the
// same length as Show. An absent PageType array is accepted.
func (c *ConditionSet) Validate() error {
	if c.Len() == 0 {
		return ErrEmptyRuleSet
	}
	n := len(c.Show)
	if len(c.Operator) != n || len(c.IDs) != n {
		return ErrMisalignedConditionSet
	}
	if len(c.PageType) != 0 && len(c.PageType) != n {
		return ErrMisalignedConditionSet
	}
	return nil
}
