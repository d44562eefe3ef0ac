package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"stravasheet/internal/backend/strava"
	"stravasheet/internal/config"
	"stravasheet/internal/exitcode"
	"stravasheet/internal/output"
	"stravasheet/internal/service"
	"stravasheet/internal/tracker"
)

func init() {
	Register(&SyncCmd{})
}

// SyncCmd implements the sync command.
// Handles both `stravasheet` (no args) and `stravasheet sync`.
type SyncCmd struct {
	count     int
	worksheet string
	duration  string
	dryRun    bool
}

// SetCount sets the number of activities to fetch (for testing).
func (c *SyncCmd) SetCount(n int) { c.count = n }

// SetWorksheet overrides the layout worksheet (for testing).
func (c *SyncCmd) SetWorksheet(name string) { c.worksheet = name }

// SetDuration overrides the layout duration format (for testing).
func (c *SyncCmd) SetDuration(format string) { c.duration = format }

// SetDryRun toggles dry-run mode (for testing).
func (c *SyncCmd) SetDryRun(dryRun bool) { c.dryRun = dryRun }

func (c *SyncCmd) Name() string      { return "sync" }
func (c *SyncCmd) Aliases() []string { return []string{"run"} }
func (c *SyncCmd) Synopsis() string  { return "Write recent activities into the tracker sheet" }
func (c *SyncCmd) Usage() string {
	return "stravasheet sync [--count <n>] [--worksheet <name>] [--duration minutes|clock] [--dry-run]"
}
func (c *SyncCmd) Needs() Needs { return Needs{Source: true, Sheet: true} }

func (c *SyncCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.count, "count", 0, "")
	fs.StringVar(&c.worksheet, "worksheet", "", "")
	fs.StringVar(&c.duration, "duration", "", "")
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
}

func (c *SyncCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backends, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	count := cfg.ActivityCount
	if c.count != 0 {
		count = c.count
	}
	if count < 1 || count > strava.MaxPerPage {
		fmt.Fprintf(errOut, "error: invalid count: %d\n", count)
		return exitcode.UserError
	}

	layout := cfg.Layout
	if c.worksheet != "" {
		layout.Worksheet = strings.TrimSpace(c.worksheet)
	}
	if c.duration != "" {
		layout.DurationFormat = strings.ToLower(strings.TrimSpace(c.duration))
	}
	if err := layout.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	activities, err := svc.Source.RecentActivities(ctx, count)
	if err != nil {
		return backendError(errOut, err)
	}
	debugf(cfg, errOut, "fetched %d activities", len(activities))

	worksheet, err := svc.Sheet.Worksheet(ctx, layout.Worksheet)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: worksheet not found: %s\n", layout.Worksheet)
			return exitcode.UserError
		}
		return backendError(errOut, err)
	}

	column, err := svc.Sheet.Column(ctx, worksheet, layout.DateColumn)
	if err != nil {
		return backendError(errOut, err)
	}
	debugf(cfg, errOut, "read %d cells from %s column %s", len(column), worksheet, layout.DateColumn)

	plan, err := tracker.BuildPlan(activities, column, layout)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		for _, skip := range plan.Skipped {
			output.FormatSkip(out, skip.SheetDate, skip.Activity)
		}
	}

	if len(plan.Updates) == 0 {
		if !cfg.Quiet {
			output.FormatNoMatches(out, worksheet)
		}
		return exitcode.Success
	}

	if c.dryRun {
		if !cfg.Quiet {
			for _, u := range plan.Updates {
				output.FormatPlanned(out, u.Row, u.Activity, u.Duration)
			}
		}
		return exitcode.Success
	}

	if err := svc.Sheet.BatchUpdate(ctx, worksheet, plan.Cells(layout)); err != nil {
		return backendError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatUpdated(out, len(plan.Updates), worksheet)
	}
	return exitcode.Success
}
