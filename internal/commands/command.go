// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"stravasheet/internal/config"
	"stravasheet/internal/service"
)

// Needs lists the backends a command uses.
type Needs struct {
	Source bool // Strava
	Sheet  bool // Google Sheets
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Needs reports which backends the dispatcher must build before Run.
	Needs() Needs

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided with environment and layout loaded.
	// svc holds only the backends requested by Needs.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Backends, args []string, out, errOut io.Writer) int
}
