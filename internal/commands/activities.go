package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"stravasheet/internal/backend/strava"
	"stravasheet/internal/config"
	"stravasheet/internal/exitcode"
	"stravasheet/internal/output"
	"stravasheet/internal/service"
)

func init() {
	Register(&ActivitiesCmd{})
}

// ActivitiesCmd implements the activities command.
// It prints what sync would fetch without touching the sheet.
type ActivitiesCmd struct {
	count int
}

func (c *ActivitiesCmd) Name() string      { return "activities" }
func (c *ActivitiesCmd) Aliases() []string { return []string{"ls"} }
func (c *ActivitiesCmd) Synopsis() string  { return "Print recent activities" }
func (c *ActivitiesCmd) Usage() string     { return "stravasheet activities [--count <n>]" }
func (c *ActivitiesCmd) Needs() Needs      { return Needs{Source: true} }

func (c *ActivitiesCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.count, "count", 0, "")
}

func (c *ActivitiesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backends, args []string, out, errOut io.Writer) int {
	count := cfg.ActivityCount
	if c.count != 0 {
		count = c.count
	}
	if count < 1 || count > strava.MaxPerPage {
		fmt.Fprintf(errOut, "error: invalid count: %d\n", count)
		return exitcode.UserError
	}

	activities, err := svc.Source.RecentActivities(ctx, count)
	if err != nil {
		return backendError(errOut, err)
	}

	for _, activity := range activities {
		output.FormatActivity(out, activity)
	}

	if len(activities) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no activities found")
	}

	return exitcode.Success
}
