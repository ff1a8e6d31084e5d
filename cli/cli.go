// Package cli provides line-based terminal play, output formatting and
// meta-command dispatch for the Emberkeep engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/nathoo/emberkeep/engine"
	"github.com/nathoo/emberkeep/engine/events"
	"github.com/nathoo/emberkeep/engine/notify"
	"github.com/nathoo/emberkeep/types"
)

// DefaultStep is the game time in seconds that passes per engine tick.
const DefaultStep = 0.25

// maxSettle bounds the ticks spent waiting out combat timers.
const maxSettle = 1000

// Printer is a notifier that writes game output as plain lines.
type Printer struct {
	Out io.Writer
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out}
}

func (p *Printer) ShowPanel(pn types.Panel) {
	switch pn {
	case types.PanelMainMenu:
		fmt.Fprintln(p.Out, "Type 'start' to begin.")
	case types.PanelCombat:
		fmt.Fprintln(p.Out, "-- Combat --")
	case types.PanelPause:
		fmt.Fprintln(p.Out, "[Paused. Type 'resume' to continue.]")
	case types.PanelGameOver:
		fmt.Fprintln(p.Out, "*** Game over ***")
	}
}

func (p *Printer) HidePanel(types.Panel)           {}
func (p *Printer) Message(text string)             { fmt.Fprintln(p.Out, text) }
func (p *Printer) UpdateStat(types.Stat, int, int) {}

var _ notify.Notifier = (*Printer)(nil)

// CLI handles line-based interaction with the player. Game time only
// moves when a command is entered: each command runs the engine until
// its input is consumed, any requested wait has passed and combat is
// back to the player's turn.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Step      float64
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine. Trace output is printed
// for every event the engine dispatches while Trace is set.
func New(eng *engine.Engine) *CLI {
	c := &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
		Step:   DefaultStep,
	}
	eng.Bus.SubscribeAll(func(ev types.Event) []types.Effect {
		if c.Trace {
			c.printLine("[trace] " + events.Format(ev))
		}
		return nil
	})
	return c
}

// Run shows the main menu, then loops: prompt, input, dispatch, output.
func (c *CLI) Run() {
	c.Engine.Init()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		reply := c.Engine.Command(input)
		c.printLines(reply.Output)
		if reply.Quit {
			c.printSystem("Goodbye.")
			return
		}
		c.advance(reply.Wait)
	}
}

// advance runs the engine until queued input is consumed, then for the
// requested wait, then through any pending combat timers.
func (c *CLI) advance(wait float64) {
	for c.Engine.Pending() > 0 {
		c.Engine.Tick(c.Step)
	}

	if wait > 0 {
		mode := c.Engine.Mode()
		ticks := int(math.Ceil(wait / c.Step))
		for i := 0; i < ticks && c.Engine.Mode() == mode; i++ {
			c.Engine.Tick(c.Step)
		}
	}

	if c.Engine.Mode() != types.ModeCombat {
		return
	}
	for i := 0; i < maxSettle && c.Engine.Mode() == types.ModeCombat && c.Engine.Clock.Len() > 0; i++ {
		c.Engine.Tick(c.Step)
	}
	if c.Engine.Mode() == types.ModeCombat {
		c.printStatus()
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	c.printLine("System:")
	c.printLine("  /quit    exit the game")
	c.printLine("  /help    show this help")
	c.printLine("  /state   debug: dump current state")
	c.printLine("  /trace   toggle event trace output")
	c.printLine("")
	c.printLine("Game commands:")
	for _, line := range c.Engine.Command("help").Output {
		c.printLine("  " + line)
	}
	c.printLine("  again (g)        repeat your last command")
}

func (c *CLI) cmdState() {
	e := c.Engine
	c.printSystem(fmt.Sprintf("Mode: %s", engine.ModeName(e.Mode())))
	c.printSystem(fmt.Sprintf("Clock: %s", e.Now()))
	c.printSystem(fmt.Sprintf("RNG: seed %d, %d draws", e.RNG.Seed(), e.RNG.Position()))
	c.printSystem(fmt.Sprintf("Position: (%.2f, %.2f)", e.Player.Position.X, e.Player.Position.Y))
	c.printSystem(fmt.Sprintf("Inventory: %v", e.Inventory.Items()))
	if len(e.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", e.Flags))
	}
	if s := e.Combat.Session(); s != nil {
		c.printSystem(fmt.Sprintf("Combat: %s vs %s, %s, round %d", s.ID, s.Enemy.ID, s.Phase, s.Round))
	}
	for _, id := range e.Defs.EnemyIDs() {
		en := e.Enemies[id]
		c.printSystem(fmt.Sprintf("Enemy %s: %s %d/%d HP at (%.1f, %.1f)",
			id, e.EnemyState(id), en.Health, en.MaxHealth(), en.Position.X, en.Position.Y))
	}
}

func (c *CLI) printStatus() {
	p := c.Engine.Player
	status := fmt.Sprintf("HP %d/%d | MP %d/%d", p.Health, p.MaxHealth(), p.Mana, p.MaxMana())
	if s := c.Engine.Combat.Session(); s != nil {
		status += fmt.Sprintf(" | %s %d/%d", s.Enemy.Name, s.Enemy.Health, s.Enemy.MaxHealth())
	}
	c.printSystem(status)
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
