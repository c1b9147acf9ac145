package rules

import (
	"log/slog"

	"github.com/solatis/displayrules/internal/types"
)

// Evaluator decides whether a display item's rule set matches the page
// described by its PageContext. It holds no state between calls and is safe
// for concurrent use when the PageContext is.
type Evaluator struct {
	page   PageContext
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for match diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEvaluator creates an evaluator bound to page.
func NewEvaluator(page PageContext, opts ...Option) *Evaluator {
	e := &Evaluator{
		page:   page,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate reports whether any descriptor of set matches.
// Returns false for an invalid item id or an empty set.
func (e *Evaluator) Evaluate(itemID types.ItemID, set types.RuleSet) bool {
	return e.Match(itemID, set).Matched
}

// Match evaluates set and reports which descriptor matched, if any.
func (e *Evaluator) Match(itemID types.ItemID, set types.RuleSet) MatchResult {
	if !itemID.Valid() || e.page == nil {
		return noMatch(itemID)
	}

	compiled, err := Compile(set)
	if err != nil {
		e.logger.Debug("rule set rejected", "item_id", int64(itemID), "error", err)
		return noMatch(itemID)
	}

	return e.evaluateCompiled(itemID, compiled)
}

// MatchCompiled evaluates a rule set compiled ahead of time.
func (e *Evaluator) MatchCompiled(itemID types.ItemID, compiled *CompiledRuleSet) MatchResult {
	if !itemID.Valid() || e.page == nil || compiled == nil || len(compiled.Descriptors) == 0 {
		return noMatch(itemID)
	}
	return e.evaluateCompiled(itemID, compiled)
}

// EvaluateConditionSet evaluates a legacy positional bag.
// Malformed bags fail closed.
func (e *Evaluator) EvaluateConditionSet(itemID types.ItemID, bag *types.ConditionSet) bool {
	if !itemID.Valid() {
		return false
	}
	set, err := FromConditionSet(bag)
	if err != nil {
		e.logger.Debug("condition set rejected", "item_id", int64(itemID), "error", err)
		return false
	}
	return e.Evaluate(itemID, set)
}

// Evaluate is a convenience wrapper around NewEvaluator(page).Evaluate.
func Evaluate(page PageContext, itemID types.ItemID, set types.RuleSet) bool {
	return NewEvaluator(page).Evaluate(itemID, set)
}
