// Package config resolves runtime settings from EMBERKEEP_* environment
// variables, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings for one run of the game.
type Config struct {
	ContentDir string        `env:"EMBERKEEP_CONTENT"`
	Seed       int64         `env:"EMBERKEEP_SEED" envDefault:"0"`
	Frame      time.Duration `env:"EMBERKEEP_FRAME" envDefault:"100ms"`
	Step       time.Duration `env:"EMBERKEEP_CLI_STEP" envDefault:"250ms"`
	LogLevel   string        `env:"EMBERKEEP_LOG_LEVEL" envDefault:"info"`
	Env        string        `env:"EMBERKEEP_ENV" envDefault:"development"`
	LogFile    string        `env:"EMBERKEEP_LOG_FILE"`

	Plain   bool
	Script  string
	Trace   bool
	Version bool
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Parse reads the environment, then lets flags override it. A single
// positional argument names the content directory.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "directory of .lua content (default: EMBERKEEP_CONTENT or the built-in demo)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = time-based)")
	fs.DurationVar(&cfg.Frame, "frame", cfg.Frame, "frame interval for the terminal UI")
	fs.DurationVar(&cfg.Step, "step", cfg.Step, "game time per tick in plain mode")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
	fs.BoolVar(&cfg.Plain, "plain", false, "line-based text interface instead of the terminal UI")
	fs.StringVar(&cfg.Script, "script", "", "replay commands from a file (implies -plain)")
	fs.BoolVar(&cfg.Trace, "trace", false, "print game events as they happen (plain mode)")
	fs.BoolVar(&cfg.Version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.ContentDir = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("expected at most one content directory, got %d arguments", fs.NArg())
	}
	if cfg.Script != "" {
		cfg.Plain = true
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if c.Frame <= 0 {
		return errors.New("frame interval must be positive")
	}
	if c.Step <= 0 {
		return errors.New("step must be positive")
	}
	return nil
}

// Production reports whether logs should be machine-readable.
func (c Config) Production() bool {
	return c.Env == "production"
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
