// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including runs where no row matched.
	Success = 0

	// UserError indicates a user error (bad args, invalid layout file).
	UserError = 1

	// AuthError indicates an auth/config error (missing environment, rejected credentials).
	AuthError = 2

	// BackendError indicates a Strava/Sheets API or network error.
	BackendError = 3
)
