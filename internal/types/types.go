// Package types provides domain models shared across displayrules components.
//
// Zero-dependency design: types.go, rules.go and errors.go use only the
// standard library so the evaluator can be embedded without pulling in the
// storage or transport stack. ID utilities in ids.go import uuid but are
// isolated from the rule types.
package types

import "strconv"

// ItemID identifies the display item (popup, banner, notice) whose rule set
// is being evaluated. Zero and negative values are invalid.
type ItemID int64

// Valid reports whether the id is a positive integer.
func (id ItemID) Valid() bool {
	return id > 0
}

// String renders the id in decimal, the form used in target id lists.
func (id ItemID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseItemID converts a decimal string to ItemID.
// Rejects zero and negative values so callers can fail closed early.
func ParseItemID(s string) (ItemID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	id := ItemID(n)
	if !id.Valid() {
		return 0, ErrInvalidItemID
	}
	return id, nil
}

// Rule set limits.
const (
	// MaxRules is the largest server.max_rules the service accepts.
	// The evaluator itself takes rule sets of any length.
	MaxRules = 256

	// TargetIDSeparator separates entries of a descriptor's target id list.
	TargetIDSeparator = ","
)

// Well-known post types and taxonomies of the host platform.
const (
	PostTypePost       = "post"
	PostTypePage       = "page"
	PostTypeAttachment = "attachment"

	TaxonomyCategory = "category"
	TaxonomyTag      = "post_tag"
)
