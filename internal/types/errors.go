package types

import "errors"

// Sentinel errors for displayrules operations.
var (
	// ErrEmptyRuleSet indicates a rule set has no descriptors.
	ErrEmptyRuleSet = errors.New("rule set is empty")

	// ErrTooManyRules indicates a rule set exceeds the configured server.max_rules.
	ErrTooManyRules = errors.New("rule set has too many descriptors")

	// ErrMisalignedConditionSet indicates the parallel arrays of a legacy
	// condition set have different lengths.
	ErrMisalignedConditionSet = errors.New("condition set arrays are misaligned")

	// ErrInvalidItemID indicates a zero or negative item id.
	ErrInvalidItemID = errors.New("item id must be a positive integer")

	// ErrUnknownView indicates a page query names an unsupported view.
	ErrUnknownView = errors.New("unknown page view")

	// ErrNotFound indicates a catalog lookup found no row.
	ErrNotFound = errors.New("not found")
)
