// Package resolve maps names typed by the player to item and NPC IDs.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/emberkeep/engine/state"
)

// Candidate is something a name may refer to.
type Candidate struct {
	ID   string
	Name string
}

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no candidate matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't see %q here", e.Name)
}

// Resolve maps a name to exactly one candidate ID.
func Resolve(name string, candidates []Candidate) (string, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []string
	for _, c := range candidates {
		if containsStr(matches, c.ID) {
			continue
		}
		if matchesName(c, nameLower) {
			matches = append(matches, c.ID)
		}
	}

	// An exact ID or full-name hit wins over word matches.
	if len(matches) > 1 {
		for _, c := range candidates {
			if strings.ToLower(c.ID) == nameLower || strings.ToLower(c.Name) == nameLower {
				return c.ID, nil
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", &AmbiguityError{Name: name, Candidates: matches}
	}
}

// Items builds candidates from item IDs, such as the bag contents.
func Items(defs *state.Defs, ids []string) []Candidate {
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, Candidate{ID: id, Name: defs.ItemName(id)})
	}
	return out
}

// NPCs builds candidates from NPC IDs.
func NPCs(defs *state.Defs, ids []string) []Candidate {
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, Candidate{ID: id, Name: defs.NPCName(id)})
	}
	return out
}

// matchesName checks if a candidate's name matches the query (case-insensitive).
// Supports exact match, word-based partial match, and ID match.
func matchesName(c Candidate, nameLower string) bool {
	if c.Name != "" {
		candLower := strings.ToLower(c.Name)
		// Exact match.
		if candLower == nameLower {
			return true
		}
		// Word-based partial match: query matches any word in the name.
		// e.g. "potion" matches "health potion", "elder" matches "village elder".
		for _, word := range strings.Fields(candLower) {
			if word == nameLower {
				return true
			}
		}
	}
	// Check ID (e.g. "iron_sword" matches "iron_sword").
	idLower := strings.ToLower(c.ID)
	if idLower == nameLower {
		return true
	}
	// Underscore normalization: "iron sword" matches ID "iron_sword".
	return strings.ReplaceAll(nameLower, " ", "_") == idLower
}

func containsStr(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
