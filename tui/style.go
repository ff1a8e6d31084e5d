package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleEnemyBar = lipgloss.NewStyle().
			Background(lipgloss.Color("52")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("180"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	styleModalTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	styleHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindInput
	kindDialogue
	kindOption
	kindCombat
	kindReward
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You don't"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You aren't"),
		strings.HasPrefix(line, "You are not"),
		strings.HasPrefix(line, "There is nothing"),
		strings.HasPrefix(line, "Not enough"),
		strings.HasPrefix(line, "I don't understand"):
		return kindError
	case isOption(line):
		return kindOption
	case strings.HasPrefix(line, "Gained "),
		strings.HasPrefix(line, "Level up!"),
		strings.HasPrefix(line, "Quest "),
		strings.HasPrefix(line, "You receive"),
		strings.HasPrefix(line, "You gain "):
		return kindReward
	case strings.Contains(line, "damage"),
		strings.HasPrefix(line, "Critical hit!"),
		strings.HasSuffix(line, "is defeated!"),
		strings.HasPrefix(line, "Combat started!"):
		return kindCombat
	case isSpeech(line):
		return kindDialogue
	default:
		return kindNarration
	}
}

// isOption matches numbered dialogue choices: "  2. Tell me more."
func isOption(line string) bool {
	t := strings.TrimLeft(line, " ")
	if len(t) == len(line) || len(t) < 3 {
		return false
	}
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(t) && t[i] == '.' && t[i+1] == ' '
}

// isSpeech matches "Speaker: words" where the speaker is a short name.
func isSpeech(line string) bool {
	i := strings.Index(line, ": ")
	if i <= 0 || i > 24 {
		return false
	}
	return !strings.ContainsAny(line[:i], ".!?[")
}

// renderLine applies the style for a line kind.
func renderLine(line string, kind lineKind) string {
	switch kind {
	case kindInput:
		return stylePlayerInput.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindOption:
		return styleOption.Render(line)
	case kindCombat:
		return styleCombat.Render(line)
	case kindReward:
		return styleReward.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}
