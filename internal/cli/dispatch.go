package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"stravasheet/internal/commands"
	"stravasheet/internal/config"
	"stravasheet/internal/exitcode"
	"stravasheet/internal/service"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "sync"

// SourceFactory creates the activity source from config.
type SourceFactory func(ctx context.Context, cfg *config.Config) (service.ActivitySource, error)

// SheetFactory creates the spreadsheet backend from config.
type SheetFactory func(ctx context.Context, cfg *config.Config) (service.Sheet, error)

// Factories injects the backends during dispatch.
type Factories struct {
	Source SourceFactory
	Sheet  SheetFactory
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry  *commands.Registry
	factories Factories
}

// NewDispatcher creates a new dispatcher with the given registry and backend factories.
func NewDispatcher(registry *commands.Registry, factories Factories) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		factories: factories,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No command, or flags first -> dispatch to the default command
	name := DefaultCommand
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	}

	// Look up command
	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	flags := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	// Common flags
	var configDir string
	var envFile string
	var quiet bool
	var debug bool

	flags.StringVar(&configDir, "config", "", "")
	flags.StringVar(&envFile, "env", config.DefaultEnvFile, "")
	flags.BoolVar(&quiet, "quiet", false, "")
	flags.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(flags)

	// Parse flags
	if err := flags.Parse(args); err != nil {
		errStr := err.Error()

		switch {
		// Check for missing flag value
		case strings.HasPrefix(errStr, "flag needs an argument:"):
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
		// Check for unknown flag
		case strings.HasPrefix(errStr, "flag provided but not defined:"):
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		default:
			fmt.Fprintf(errOut, "error: %s\n", errStr)
		}
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := flags.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	// Load .env, environment and sheet layout
	if err := cfg.LoadEnv(envFile); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if err := cfg.LoadLayout(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	// Build only the backends the command needs
	var svc service.Backends
	needs := cmd.Needs()

	if needs.Source {
		if d.factories.Source == nil {
			fmt.Fprintln(errOut, "error: no activity source configured")
			return exitcode.BackendError
		}
		if svc.Source, err = d.factories.Source(ctx, cfg); err != nil {
			return factoryError(errOut, err)
		}
	}

	if needs.Sheet {
		if d.factories.Sheet == nil {
			fmt.Fprintln(errOut, "error: no sheet backend configured")
			return exitcode.BackendError
		}
		if svc.Sheet, err = d.factories.Sheet(ctx, cfg); err != nil {
			return factoryError(errOut, err)
		}
	}

	// Run command
	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// factoryError reports a backend that could not be built.
// Missing environment and unreadable key files are auth/config errors.
func factoryError(errOut io.Writer, err error) int {
	if errors.Is(err, config.ErrMissingEnv) || errors.Is(err, service.ErrUnauthorized) || errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %s\n", err)
	return exitcode.BackendError
}
