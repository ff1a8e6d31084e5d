// Package parser converts command strings into Command structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/emberkeep/types"
)

// Command is a parsed player command.
type Command struct {
	Verb      string
	Object    string
	Number    float64
	HasNumber bool
}

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
}

// Directions maps direction names to unit vectors on the ground plane.
// North is +Y.
var Directions = map[string]types.Vec2{
	"north":     {X: 0, Y: 1},
	"south":     {X: 0, Y: -1},
	"east":      {X: 1, Y: 0},
	"west":      {X: -1, Y: 0},
	"northeast": {X: 0.7071067811865476, Y: 0.7071067811865476},
	"northwest": {X: -0.7071067811865476, Y: 0.7071067811865476},
	"southeast": {X: 0.7071067811865476, Y: -0.7071067811865476},
	"southwest": {X: -0.7071067811865476, Y: -0.7071067811865476},
}

var verbAliases = map[string]string{
	// Combat
	"hit":    "attack",
	"fight":  "attack",
	"strike": "attack",
	"q":      "skill",
	"cast":   "skill",
	"spell":  "skill",
	"magic":  "skill",
	"escape": "flee",

	// Items
	"drink":   "use",
	"quaff":   "use",
	"eat":     "use",
	"consume": "use",
	"wield":   "equip",
	"wear":    "equip",
	"remove":  "unequip",
	"inv":     "inventory",
	"i":       "inventory",
	"bag":     "inventory",

	// Movement
	"walk":   "go",
	"move":   "go",
	"head":   "go",
	"travel": "go",
	"z":      "wait",
	"rest":   "wait",

	// Talk / Dialogue
	"speak":    "talk",
	"chat":     "talk",
	"ask":      "talk",
	"interact": "talk",
	"reply":    "choose",
	"option":   "choose",
	"c":        "next",
	"continue": "next",
	"bye":      "leave",

	// Meta
	"journal": "quests",
	"j":       "quests",
	"quest":   "quests",
	"status":  "stats",
	"me":      "stats",
	"l":       "look",
	"h":       "help",
	"?":       "help",
	"exit":    "quit",
	"new":     "start",
	"play":    "start",
	"p":       "pause",
	"unpause": "resume",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "my": true,
}

var fillers = map[string]bool{
	"to": true, "with": true, "at": true, "on": true, "for": true,
}

// Parse converts a raw command string into a Command.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Bare number: "2" → choose 2
	if n, err := strconv.ParseFloat(words[0], 64); err == nil && len(words) == 1 {
		return Command{Verb: "choose", Number: n, HasNumber: true}
	}

	// Direction shortcut: "n", "south 3" → go <direction> [distance]
	if dir, ok := direction(words[0]); ok {
		words = append([]string{"go", dir}, words[1:]...)
	}

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripFillers(words[1:])

	cmd := Command{Verb: verb}

	// A trailing number is a count, distance, duration or option index.
	if len(rest) > 0 {
		if n, err := strconv.ParseFloat(rest[len(rest)-1], 64); err == nil {
			cmd.Number = n
			cmd.HasNumber = true
			rest = rest[:len(rest)-1]
		}
	}

	if verb == "go" && len(rest) > 0 {
		if dir, ok := direction(rest[0]); ok {
			rest[0] = dir
		}
	}

	cmd.Object = strings.Join(rest, " ")
	return cmd
}

// direction expands a direction word, reporting whether it is one.
func direction(w string) (string, bool) {
	if full, ok := directionExpansions[w]; ok {
		return full, true
	}
	if _, ok := Directions[w]; ok {
		return w, true
	}
	return "", false
}

// expandMultiWordVerbs handles "talk to", "take off", "pick up" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "take":
		if words[1] == "off" {
			return append([]string{"unequip"}, words[2:]...)
		}
	case "put":
		if words[1] == "on" {
			return append([]string{"equip"}, words[2:]...)
		}
	case "run":
		if words[1] == "away" {
			return []string{"flee"}
		}
	case "use":
		if words[1] == "skill" || words[1] == "magic" {
			return []string{"skill"}
		}
	}

	return words
}

// stripFillers removes articles and filler prepositions from the word list.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] && !fillers[w] {
			result = append(result, w)
		}
	}
	return result
}
