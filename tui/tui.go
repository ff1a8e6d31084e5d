package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/emberkeep/engine"
	"github.com/nathoo/emberkeep/engine/events"
	"github.com/nathoo/emberkeep/engine/parser"
	"github.com/nathoo/emberkeep/types"
)

// DefaultFrame is the interval between engine ticks.
const DefaultFrame = 100 * time.Millisecond

// maxDelta caps the game time one frame may advance, so a stalled
// terminal does not fast-forward combat.
const maxDelta = 0.25

// Model is the Bubble Tea model for the Emberkeep TUI. The engine runs in
// real time: every frame message advances it by the elapsed time.
type Model struct {
	engine *engine.Engine
	screen *Screen
	keys   keyMap
	frame  time.Duration

	viewport viewport.Model
	input    textinput.Model
	history  *History

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
	last     time.Time
}

// frameMsg drives the engine clock.
type frameMsg time.Time

// New creates a TUI model wired to the given engine. The screen must be
// the notifier the engine was built with.
func New(eng *engine.Engine, screen *Screen, frame time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if frame <= 0 {
		frame = DefaultFrame
	}
	eng.Bus.SubscribeAll(func(ev types.Event) []types.Effect {
		if screen.trace {
			screen.add(rawLine{text: "[trace] " + events.Format(ev), kind: kindTrace})
		}
		return nil
	})
	eng.Init()

	return Model{
		engine:  eng,
		screen:  screen,
		keys:    defaultKeyMap(),
		frame:   frame,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, screen *Screen, frame time.Duration) error {
	m := New(eng, screen, frame)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the cursor blink and the frame clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.nextFrame())
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages (frames, key presses, window resize).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.refreshViewport()
		return m, nil

	case frameMsg:
		m = m.advance(time.Time(msg))
		return m, m.nextFrame()

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, inputCmd
}

// advance ticks the engine by the time since the previous frame.
func (m Model) advance(now time.Time) Model {
	dt := m.frame.Seconds()
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now
	if dt > maxDelta {
		dt = maxDelta
	}
	m.engine.Tick(dt)
	if m.screen.takeDirty() {
		m.refreshViewport()
	}
	return m
}

// handleKey applies key bindings. Keys that only edit the input line are
// left to the text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Submit):
		next, cmd := m.handleEnter()
		return next, cmd, true

	case key.Matches(msg, m.keys.HistPrev):
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil, true

	case key.Matches(msg, m.keys.HistNext):
		if next, ok := m.history.Next(); ok {
			m.input.SetValue(next)
			m.input.CursorEnd()
		} else {
			m.input.SetValue("")
			m.history.ResetCursor()
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Scroll):
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd, true

	case key.Matches(msg, m.keys.Pause):
		if m.engine.Mode() == types.ModePaused {
			m.engine.Submit(types.Input{Kind: types.InputResume})
		} else {
			m.engine.Submit(types.Input{Kind: types.InputPause})
		}
		return m, nil, true
	}

	if in, ok := m.actionFor(msg); ok {
		m.engine.Submit(in)
		return m, nil, true
	}
	return m, nil, false
}

// actionFor maps direct-action keys to engine inputs.
func (m Model) actionFor(msg tea.KeyMsg) (types.Input, bool) {
	switch {
	case key.Matches(msg, m.keys.Inventory):
		return types.Input{Kind: types.InputInventory}, true
	case key.Matches(msg, m.keys.Attack):
		return types.Input{Kind: types.InputAttack}, true
	case key.Matches(msg, m.keys.Skill):
		return types.Input{Kind: types.InputSkill}, true
	case key.Matches(msg, m.keys.Item):
		return types.Input{Kind: types.InputItem}, true
	case key.Matches(msg, m.keys.Flee):
		return types.Input{Kind: types.InputFlee}, true
	case key.Matches(msg, m.keys.Talk):
		return types.Input{Kind: types.InputInteract}, true
	case key.Matches(msg, m.keys.North):
		return walk("north"), true
	case key.Matches(msg, m.keys.South):
		return walk("south"), true
	case key.Matches(msg, m.keys.East):
		return walk("east"), true
	case key.Matches(msg, m.keys.West):
		return walk("west"), true
	}
	return types.Input{}, false
}

// walk moves for one frame at the player's speed.
func walk(dir string) types.Input {
	return types.Input{Kind: types.InputMove, Dir: parser.Directions[dir]}
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		if m.engine.Mode() == types.ModeMenu {
			m.engine.Submit(types.Input{Kind: types.InputStart})
		}
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m.appendOutput(input, []string{"Nothing to repeat."}, kindSystem)
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m.appendOutput(input, output, kindSystem)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	reply := m.engine.Command(input)
	output := reply.Output
	if reply.Wait > 0 {
		output = append(output, "Time passes.")
	}
	m.appendOutput(input, output, kindNarration)
	if reply.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// appendOutput echoes input and adds reply lines to the scrollback.
// Narration lines are classified; other kinds are used as given.
func (m *Model) appendOutput(input string, lines []string, kind lineKind) {
	m.screen.add(rawLine{text: "> " + input, kind: kindInput})
	for _, line := range lines {
		k := kind
		if kind == kindNarration {
			k = classifyLine(line)
		}
		m.screen.add(rawLine{text: line, kind: k})
	}
	m.refreshViewport()
	m.screen.takeDirty()
}

// layout sizes the viewport around the status bar, key hints, input line
// and the bag panel when it is open.
func (m *Model) layout() {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	w := m.width
	if m.screen.Visible(types.PanelInventory) {
		w -= bagWidth
	}
	if w < 10 {
		w = 10
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// refreshViewport re-wraps and re-styles all raw lines at the current
// width and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.layout()

	styled := make([]string, 0, len(m.screen.lines))
	for _, rl := range m.screen.lines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		styled = append(styled, renderLine(wordwrap.String(rl.text, m.viewport.Width), rl.kind))
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the layout: the scrollback (or a modal over it), the bag
// panel when open, then status bar, key hints and input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	main := m.viewport.View()
	w, h := m.viewport.Width, m.viewport.Height
	switch {
	case m.screen.Visible(types.PanelMainMenu):
		game := m.engine.Defs.Game
		body := []string{}
		if game.Author != "" {
			body = append(body, "by "+game.Author)
		}
		body = append(body, styleHint.Render("Press Enter to begin. Ctrl+C quits."))
		main = renderModal(w, h, game.Title, body...)
	case m.screen.Visible(types.PanelPause):
		main = renderModal(w, h, "Paused", styleHint.Render("Esc or 'resume' to continue."))
	case m.screen.Visible(types.PanelGameOver):
		main = renderModal(w, h, "You have fallen", styleHint.Render("The world fades..."))
	}
	if m.screen.Visible(types.PanelInventory) {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderBag(h))
	}

	return main + "\n" + m.renderStatusBar() + "\n" + m.renderHints() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.screen.trace = !m.screen.trace
		if m.screen.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	out := []string{
		"System:",
		"  /quit    exit the game",
		"  /help    show this help",
		"  /state   debug: dump current state",
		"  /trace   toggle event trace output",
		"",
		"Game commands:",
	}
	for _, line := range m.engine.Command("help").Output {
		out = append(out, "  "+line)
	}
	out = append(out,
		"  again (g)        repeat your last command",
		"",
		"Keys: alt+arrows walk, ctrl+t talk, F1-F4 attack/skill/potion/flee,",
		"tab bag, esc pause, PgUp/PgDn scroll, Up/Down history",
	)
	return out
}

func (m *Model) cmdState() []string {
	e := m.engine
	out := []string{
		fmt.Sprintf("Mode: %s", engine.ModeName(e.Mode())),
		fmt.Sprintf("Clock: %s", e.Now()),
		fmt.Sprintf("RNG: seed %d, %d draws", e.RNG.Seed(), e.RNG.Position()),
		fmt.Sprintf("Position: (%.2f, %.2f)", e.Player.Position.X, e.Player.Position.Y),
		fmt.Sprintf("Inventory: %v", e.Inventory.Items()),
	}
	if len(e.Flags) > 0 {
		out = append(out, fmt.Sprintf("Flags: %v", e.Flags))
	}
	if s := e.Combat.Session(); s != nil {
		out = append(out, fmt.Sprintf("Combat: %s vs %s, %s, round %d", s.ID, s.Enemy.ID, s.Phase, s.Round))
	}
	return out
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
