package rules

import "github.com/nathoo/emberkeep/types"

// MatchesEvent checks if a rule's When criteria match an event.
func MatchesEvent(when types.MatchCriteria, e types.Event) bool {
	// Event type is required and must match.
	if when.Event != e.Type {
		return false
	}

	// Every listed field must be present with an equal value.
	for field, expected := range when.Fields {
		actual, ok := e.Data[field]
		if !ok || !equal(actual, expected) {
			return false
		}
	}

	return true
}

// Specificity returns a numeric score for ranking rules.
// Higher is more specific.
func Specificity(rule types.RuleDef) int {
	return len(rule.When.Fields)
}

// equal compares event values, treating Lua numbers and Go ints alike.
func equal(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		return toFloat(a) == toFloat(b)
	}
	return a == b
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	}
	return false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
