package commands

import (
	"errors"
	"fmt"
	"io"
	"log"

	"stravasheet/internal/config"
	"stravasheet/internal/exitcode"
	"stravasheet/internal/service"
)

// backendError reports a failed backend call and returns its exit code.
func backendError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, config.ErrMissingEnv):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// debugf writes a debug line to errOut when --debug is set.
func debugf(cfg *config.Config, errOut io.Writer, format string, args ...any) {
	if !cfg.Debug {
		return
	}
	log.New(errOut, "", log.LstdFlags).Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}
