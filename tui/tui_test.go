package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/emberkeep/engine"
	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[trace] mode_changed from=menu to=playing", kindTrace},
		{"[Paused]", kindSystem},
		{"You don't have \"elixir\".", kindError},
		{"You can't do that now.", kindError},
		{"I don't understand that.", kindError},
		{"  1. Tell me more.", kindOption},
		{"Gained 10 XP and 3 gold.", kindReward},
		{"Level up!", kindReward},
		{"You hit the Goblin for 4 damage.", kindCombat},
		{"The Goblin is defeated!", kindCombat},
		{"Elder: Hello there.", kindDialogue},
		{"You stand at (0.0, 0.0).", kindNarration},
		{"", kindNarration},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsOption(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"  2. Goodbye.", true},
		{"  12. Long list.", true},
		{"2. Not indented.", false},
		{"  Walk on.", false},
		{"  3.", false},
	}
	for _, tt := range tests {
		if got := isOption(tt.line); got != tt.want {
			t.Errorf("isOption(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsSpeech(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Elder: Welcome.", true},
		{"Old Marta: The road is long.", true},
		{"Done. Note: nothing", false},
		{"[Mode: menu]", false},
		{"No speaker here.", false},
		{"A very long speaker name indeed: hi", false},
	}
	for _, tt := range tests {
		if got := isSpeech(tt.line); got != tt.want {
			t.Errorf("isSpeech(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")
	h.Push("take key")

	prev, ok := h.Prev()
	if !ok || prev != "take key" {
		t.Errorf("expected 'take key', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev() // "go north"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Prev()
	if ok {
		t.Error("expected false on empty history")
	}
	_, ok = h.Next()
	if ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	// "a" is gone.
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look") // skipped
	h.Push("look") // skipped

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev() // "go north"
	h.ResetCursor()

	// After reset, Prev starts from the end again.
	prev, ok := h.Prev()
	if !ok || prev != "go north" {
		t.Errorf("expected 'go north' after reset, got %q", prev)
	}
}

func TestScreen_Notifier(t *testing.T) {
	s := NewScreen()
	s.ShowPanel(types.PanelCombat)
	s.Message("You hit the Goblin for 2 damage.")
	s.UpdateStat(types.StatHealth, 80, 100)

	if !s.Visible(types.PanelCombat) {
		t.Error("expected combat panel visible")
	}
	if len(s.lines) != 1 || s.lines[0].kind != kindCombat {
		t.Errorf("expected one combat line, got %+v", s.lines)
	}
	if v, ok := s.Stat(types.StatHealth); !ok || v.Current != 80 || v.Max != 100 {
		t.Errorf("health = %+v (ok=%v), want 80/100", v, ok)
	}
	if !s.takeDirty() {
		t.Error("expected dirty after updates")
	}
	if s.takeDirty() {
		t.Error("expected dirty flag cleared")
	}

	s.HidePanel(types.PanelCombat)
	if s.Visible(types.PanelCombat) {
		t.Error("expected combat panel hidden")
	}
}

func TestScreen_ScrollbackCap(t *testing.T) {
	s := NewScreen()
	for i := 0; i < maxLines+10; i++ {
		s.Message("line")
	}
	s.Message("last")
	if len(s.lines) != maxLines {
		t.Fatalf("len = %d, want %d", len(s.lines), maxLines)
	}
	if s.lines[len(s.lines)-1].text != "last" {
		t.Errorf("expected newest line kept, got %q", s.lines[len(s.lines)-1].text)
	}
}

// testDefs returns a small world with an elder next to the spawn point
// and a goblin far enough away not to notice the player.
func testDefs() *state.Defs {
	d := state.NewDefs()
	d.Game.Title = "Test Game"
	d.Game.Intro = "Welcome to the test."
	d.NPCs["elder"] = types.NPCDef{
		ID:       "elder",
		Name:     "Elder",
		Position: types.Vec2{Y: 2},
		Range:    3,
		Lines:    []types.DialogueLine{{Text: "Hello there."}},
	}
	d.Enemies["goblin"] = types.EnemyDef{
		ID:       "goblin",
		Name:     "Goblin",
		Kind:     "Goblin",
		Stats:    types.Stats{MaxHealth: 5, Attack: 2},
		Position: types.Vec2{X: 40},
	}
	return d
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	screen := NewScreen()
	eng := engine.New(testDefs(), engine.Options{Seed: 1, UI: screen})
	m := New(eng, screen, 50*time.Millisecond)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func frame(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, frameMsg(time.Now()))
}

func press(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

func typeLine(t *testing.T, m Model, line string) Model {
	t.Helper()
	m.input.SetValue(line)
	return press(t, m, tea.KeyEnter)
}

func scrollback(m Model) string {
	var b strings.Builder
	for _, l := range m.screen.lines {
		b.WriteString(l.text + "\n")
	}
	return b.String()
}

func started(t *testing.T) Model {
	t.Helper()
	m := newTestModel(t)
	m = press(t, m, tea.KeyEnter)
	m = frame(t, m)
	if m.engine.Mode() != types.ModePlaying {
		t.Fatalf("mode = %v, want playing", m.engine.Mode())
	}
	return m
}

func TestModel_MainMenu(t *testing.T) {
	m := newTestModel(t)
	if !m.screen.Visible(types.PanelMainMenu) {
		t.Fatal("expected main menu panel after init")
	}
	if !strings.Contains(m.View(), "Press Enter to begin.") {
		t.Errorf("expected menu modal, got:\n%s", m.View())
	}
}

func TestModel_EnterStarts(t *testing.T) {
	m := started(t)
	if !strings.Contains(scrollback(m), "Welcome to the test.") {
		t.Errorf("expected intro, got:\n%s", scrollback(m))
	}
	if !strings.Contains(m.renderStatusBar(), "HP 100/100") {
		t.Errorf("expected health in status bar, got %q", m.renderStatusBar())
	}
}

func TestModel_TypedCommand(t *testing.T) {
	m := started(t)
	m = typeLine(t, m, "look")

	out := scrollback(m)
	for _, want := range []string{"> look", "You stand at (0.0, 0.0).", "Elder is here."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in scrollback, got:\n%s", want, out)
		}
	}
	if m.input.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.input.Value())
	}
}

func TestModel_TypedMoveTakesEffectOnFrame(t *testing.T) {
	m := started(t)
	m = typeLine(t, m, "n 2")
	if m.engine.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", m.engine.Pending())
	}
	m = frame(t, m)
	if y := m.engine.Player.Position.Y; y != 2 {
		t.Errorf("y = %v, want 2", y)
	}
}

func TestModel_Again(t *testing.T) {
	m := started(t)
	m = typeLine(t, m, "g")
	if !strings.Contains(scrollback(m), "Nothing to repeat.") {
		t.Error("expected nothing to repeat")
	}
	m = typeLine(t, m, "stats")
	m = typeLine(t, m, "again")
	if n := strings.Count(scrollback(m), "Hero, level 1"); n != 2 {
		t.Errorf("expected stats twice, got %d", n)
	}
}

func TestModel_BagToggle(t *testing.T) {
	m := started(t)
	m = press(t, m, tea.KeyTab)
	m = frame(t, m)
	if !m.screen.Visible(types.PanelInventory) {
		t.Fatal("expected bag open")
	}
	if !strings.Contains(m.View(), "Bag 0/") {
		t.Errorf("expected bag panel in view, got:\n%s", m.View())
	}

	m = press(t, m, tea.KeyTab)
	m = frame(t, m)
	if m.screen.Visible(types.PanelInventory) {
		t.Error("expected bag closed")
	}
}

func TestModel_PauseAndResume(t *testing.T) {
	m := started(t)
	m = press(t, m, tea.KeyEsc)
	m = frame(t, m)
	if m.engine.Mode() != types.ModePaused {
		t.Fatalf("mode = %v, want paused", m.engine.Mode())
	}
	if !strings.Contains(m.View(), "Paused") {
		t.Error("expected pause modal")
	}

	m = press(t, m, tea.KeyEsc)
	m = frame(t, m)
	if m.engine.Mode() != types.ModePlaying {
		t.Errorf("mode = %v, want playing", m.engine.Mode())
	}
}

func TestModel_HistoryRecall(t *testing.T) {
	m := started(t)
	m = typeLine(t, m, "look")
	m = typeLine(t, m, "stats")

	m = press(t, m, tea.KeyUp)
	if m.input.Value() != "stats" {
		t.Errorf("input = %q, want stats", m.input.Value())
	}
	m = press(t, m, tea.KeyUp)
	if m.input.Value() != "look" {
		t.Errorf("input = %q, want look", m.input.Value())
	}
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyDown)
	if m.input.Value() != "" {
		t.Errorf("input = %q, want empty past newest", m.input.Value())
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestHandleMeta(t *testing.T) {
	m := newTestModel(t)

	out, quit := m.handleMeta("/quit")
	if !quit || out[0] != "Goodbye." {
		t.Errorf("/quit = %v, %v", out, quit)
	}

	out, _ = m.handleMeta("/help")
	if !strings.Contains(strings.Join(out, "\n"), "start  begin the game") {
		t.Errorf("expected game help in /help, got %v", out)
	}

	out, _ = m.handleMeta("/state")
	if out[0] != "Mode: menu" {
		t.Errorf("expected mode first, got %v", out)
	}
	if !strings.Contains(strings.Join(out, "\n"), "RNG: seed 1, ") {
		t.Errorf("expected seed in /state, got %v", out)
	}

	out, _ = m.handleMeta("/trace")
	if !m.screen.trace || out[0] != "Trace output enabled." {
		t.Errorf("expected trace on, got %v", out)
	}

	out, quit = m.handleMeta("/dance")
	if quit || !strings.Contains(out[0], "Unknown command: /dance") {
		t.Errorf("unknown = %v, %v", out, quit)
	}
}

func TestModel_TraceLines(t *testing.T) {
	m := newTestModel(t)
	m.screen.trace = true
	m = press(t, m, tea.KeyEnter)
	m = frame(t, m)
	if !strings.Contains(scrollback(m), "[trace] mode_changed from=menu to=playing") {
		t.Errorf("expected traced mode change, got:\n%s", scrollback(m))
	}
}
