// internal/rules/coercion.go
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/displayrules/internal/types"
)

/*
 * Loose value coercion for legacy condition sets.
 *
 * Authoring tools store the operator and ids arrays with whatever scalar
 * type the form submitted: "1"/"0" strings, booleans, numbers, or nothing.
 * FromConditionSet normalizes one positional bag into a types.RuleSet.
 *
 * Operator truthiness:
 *   - nil, false, 0, "", "0", empty lists -> false
 *   - everything else -> true
 *
 * Target id text:
 *   - strings as-is, numbers in shortest decimal form
 *   - lists joined with "," so YAML sequences behave like CSV text
 *   - nil -> ""
 */

// CoerceOperator converts a loosely typed operator value to a polarity.
func CoerceOperator(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0"
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case uint64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

// CoerceTargetIDs renders a loosely typed ids value as comma separated text.
func CoerceTargetIDs(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		if v {
			return "1"
		}
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			parts = append(parts, CoerceTargetIDs(elem))
		}
		return strings.Join(parts, types.TargetIDSeparator)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FromConditionSet converts a positional bag into an ordered RuleSet.
// Returns ErrEmptyRuleSet or ErrMisalignedConditionSet for malformed bags.
func FromConditionSet(bag *types.ConditionSet) (types.RuleSet, error) {
	if err := bag.Validate(); err != nil {
		return nil, err
	}

	set := make(types.RuleSet, 0, bag.Len())
	for i, show := range bag.Show {
		d := types.RuleDescriptor{
			Kind:      show,
			Operator:  CoerceOperator(bag.Operator[i]),
			TargetIDs: CoerceTargetIDs(bag.IDs[i]),
		}
		if len(bag.PageType) != 0 {
			d.PageType = bag.PageType[i]
		}
		set = append(set, d)
	}

	return set, nil
}
