package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/emberkeep/engine"
	"github.com/nathoo/emberkeep/types"
)

// bagWidth is the width of the inventory side panel, borders included.
const bagWidth = 30

// renderStatusBar produces a full-width inverted status line with the
// title and mode on the left and the player's stats on the right. During
// combat the enemy's health gets its own highlighted segment.
func (m Model) renderStatusBar() string {
	mode := strings.ToUpper(engine.ModeName(m.engine.Mode()))
	if m.screen.Visible(types.PanelInventory) {
		mode += " (bag)"
	}
	left := fmt.Sprintf(" %s | %s", m.engine.Defs.Game.Title, mode)
	right := m.statText() + " "

	var enemy string
	if m.screen.Visible(types.PanelCombat) {
		if s := m.engine.Combat.Session(); s != nil {
			if v, ok := m.screen.Stat(types.StatEnemyHealth); ok {
				enemy = styleEnemyBar.Render(fmt.Sprintf(" %s %d/%d ", s.Enemy.Name, v.Current, v.Max))
			}
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - lipgloss.Width(enemy)
	if gap < 0 {
		gap = 0
	}
	bar := styleStatusBar.Render(left + strings.Repeat(" ", gap))
	return bar + enemy + styleStatusBar.Render(right)
}

// statText formats the stats the engine has pushed so far.
func (m Model) statText() string {
	var parts []string
	if v, ok := m.screen.Stat(types.StatLevel); ok {
		parts = append(parts, fmt.Sprintf("Lv %d", v.Current))
	}
	for _, st := range []struct {
		stat  types.Stat
		label string
	}{
		{types.StatHealth, "HP"},
		{types.StatMana, "MP"},
		{types.StatExperience, "XP"},
	} {
		if v, ok := m.screen.Stat(st.stat); ok {
			parts = append(parts, fmt.Sprintf("%s %d/%d", st.label, v.Current, v.Max))
		}
	}
	if v, ok := m.screen.Stat(types.StatGold); ok {
		parts = append(parts, fmt.Sprintf("%dg", v.Current))
	}
	return strings.Join(parts, " | ")
}

// renderBag draws the inventory side panel.
func (m Model) renderBag(height int) string {
	inv := m.engine.Inventory
	defs := m.engine.Defs

	var b strings.Builder
	b.WriteString(styleModalTitle.Render(fmt.Sprintf("Bag %d/%d", inv.Len(), inv.Slots())))
	b.WriteString("\n")
	seen := map[string]bool{}
	for _, id := range inv.Items() {
		if seen[id] {
			continue
		}
		seen[id] = true
		line := defs.ItemName(id)
		if n := inv.Count(id); n > 1 {
			line += fmt.Sprintf(" x%d", n)
		}
		b.WriteString(line + "\n")
	}
	if slots := inv.EquippedSlots(); len(slots) > 0 {
		b.WriteString("\n" + styleModalTitle.Render("Equipped") + "\n")
		for _, slot := range slots {
			b.WriteString(fmt.Sprintf("%s: %s\n", slot, defs.ItemName(inv.Equipped(slot))))
		}
	}
	b.WriteString("\n" + styleHint.Render("use/equip <item>, tab closes"))

	h := height - 2
	if h < 1 {
		h = 1
	}
	return stylePanel.Width(bagWidth - 2).Height(h).Render(b.String())
}

// renderModal centers a titled box in an area of the given size.
func renderModal(width, height int, title string, body ...string) string {
	var b strings.Builder
	b.WriteString(styleModalTitle.Render(title))
	for _, line := range body {
		b.WriteString("\n\n" + line)
	}
	modal := styleModal.Width(min(50, max(width-4, 10))).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

// renderHints lists the direct-action keys.
func (m Model) renderHints() string {
	var parts []string
	for _, b := range m.keys.hints() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styleHint.Render(" " + strings.Join(parts, " · "))
}
