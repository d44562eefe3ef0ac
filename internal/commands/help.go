package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"stravasheet/internal/config"
	"stravasheet/internal/exitcode"
	"stravasheet/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "stravasheet help" }
func (c *HelpCmd) Needs() Needs      { return Needs{} }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backends, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  stravasheet                                  Same as sync
  stravasheet sync [common flags] [--count <n>] [--worksheet <name>]
                   [--duration minutes|clock] [--dry-run]
  stravasheet activities [common flags] [--count <n>]
  stravasheet login [common flags]
  stravasheet logout [common flags]
  stravasheet help
  stravasheet version

Common flags:
  --config <dir>   Override config directory (layout.yaml, token.json)
  --env <file>     Dotenv file to load (default .env)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET   Strava API application
  STRAVA_REFRESH_TOKEN                     Refresh token (or run: stravasheet login)
  GOOGLE_SHEET_ID                          Target spreadsheet
  STRAVA_ACTIVITY_COUNT                    Activities to fetch (default 5)

The Google service account key is read from ./credentials.json.
`
