// Emberkeep runs the data-driven RPG prototype: real-time exploration with
// turn-based fights, NPC dialogue and quests.
// Usage: emberkeep [flags] [content_directory]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nathoo/emberkeep/cli"
	"github.com/nathoo/emberkeep/config"
	"github.com/nathoo/emberkeep/content"
	"github.com/nathoo/emberkeep/engine"
	"github.com/nathoo/emberkeep/engine/notify"
	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/loader"
	"github.com/nathoo/emberkeep/logging"
	"github.com/nathoo/emberkeep/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		config.Exitf("emberkeep: %v", err)
	}
}

// run parses args and plays one game. Every resource it opens is closed
// before it returns.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("emberkeep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	if cfg.Version {
		fmt.Fprintf(stdout, "emberkeep %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	// Use plain CLI if requested or stdout is not a terminal.
	plain := cfg.Plain || !isTerminal(stdout)

	logOut := stderr
	if !plain {
		logOut = io.Discard
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.Setup(cfg, logOut)
	if err != nil {
		return err
	}

	defs, err := loadContent(cfg.ContentDir)
	if err != nil {
		logging.WithError(logger, err).Error("content failed to load")
		return fmt.Errorf("loading game: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("game loaded",
		slog.String("title", defs.Game.Title),
		slog.Int64("seed", seed),
		slog.Int("enemies", len(defs.Enemies)),
		slog.Int("npcs", len(defs.NPCs)),
		slog.Int("quests", len(defs.Quests)),
	)

	if plain {
		return runPlain(cfg, defs, seed, logger, stdin, stdout)
	}

	screen := tui.NewScreen()
	eng := newEngine(defs, seed, screen, logger)
	if err := tui.Run(eng, screen, cfg.Frame); err != nil {
		logging.WithError(logger, err).Error("terminal UI failed")
		return err
	}
	return nil
}

func runPlain(cfg config.Config, defs *state.Defs, seed int64, logger *slog.Logger, stdin io.Reader, stdout io.Writer) error {
	c := cli.New(newEngine(defs, seed, cli.NewPrinter(stdout), logger))
	c.In = stdin
	c.Out = stdout
	c.Step = cfg.Step.Seconds()
	c.Trace = cfg.Trace

	// Script mode: read commands from the file and echo them.
	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}

	if defs.Game.Author != "" {
		fmt.Fprintf(stdout, "%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
	}
	c.Run()
	return nil
}

func newEngine(defs *state.Defs, seed int64, ui notify.Notifier, logger *slog.Logger) *engine.Engine {
	return engine.New(defs, engine.Options{Seed: seed, UI: ui, Logger: logger})
}

// loadContent reads a content directory, or the bundled demo when none
// is given.
func loadContent(dir string) (*state.Defs, error) {
	if dir == "" {
		return loader.LoadFS(content.Demo, content.DemoDir)
	}
	return loader.Load(dir)
}

// isTerminal returns true if w is a terminal (not piped/redirected).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
