package rules

import (
	"sort"

	"github.com/nathoo/emberkeep/types"
)

// Evaluate selects the rule that reacts to an event and returns its
// effects. The bool reports whether any rule matched.
//
// Pipeline: filter by When match and conditions, rank by specificity
// (desc) then priority (desc) then source order (asc), select the first.
func Evaluate(rules []types.RuleDef, e types.Event, f Facts) ([]types.Effect, bool) {
	if winner := filterRankSelect(rules, e, f); winner != nil {
		return winner.Effects, true
	}
	return nil, false
}

// Handler adapts Evaluate to the event bus handler signature.
func Handler(rules []types.RuleDef, f Facts) func(types.Event) []types.Effect {
	return func(e types.Event) []types.Effect {
		effs, _ := Evaluate(rules, e, f)
		return effs
	}
}

// filterRankSelect filters rules, ranks them, and returns the top-ranked
// matching rule, or nil if none match.
func filterRankSelect(rules []types.RuleDef, e types.Event, f Facts) *types.RuleDef {
	var candidates []types.RuleDef
	for _, rule := range rules {
		if !MatchesEvent(rule.When, e) {
			continue
		}
		if !EvalAllConditions(rule.Conditions, f) {
			continue
		}
		candidates = append(candidates, rule)
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := Specificity(candidates[i]), Specificity(candidates[j])
		if si != sj {
			return si > sj
		}
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].SourceOrder < candidates[j].SourceOrder
	})

	return &candidates[0]
}
