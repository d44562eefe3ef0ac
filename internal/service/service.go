// Package service defines the backend-agnostic interfaces for activities and sheets.
package service

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized is wrapped by backends when credentials are rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is wrapped by backends when a resource does not exist.
	ErrNotFound = errors.New("not found")
)

// ActivitySource lists recorded activities.
// Commands never import the Strava client directly.
type ActivitySource interface {
	// RecentActivities returns up to count most recent activities in API order.
	// A malformed record fails the whole call.
	RecentActivities(ctx context.Context, count int) ([]Activity, error)
}

// Sheet reads and writes cells of a spreadsheet.
type Sheet interface {
	// Worksheet resolves a worksheet by title (case-insensitive, trimmed)
	// and returns its exact title.
	Worksheet(ctx context.Context, name string) (string, error)

	// Column returns the displayed values of a whole column, starting at row 1.
	Column(ctx context.Context, worksheet, column string) ([]string, error)

	// BatchUpdate writes all cells in a single request.
	// No request is made when cells is empty.
	BatchUpdate(ctx context.Context, worksheet string, cells []Cell) error
}

// Backends carries the backends a command asked for.
// Fields are nil when the command does not need them.
type Backends struct {
	Source ActivitySource
	Sheet  Sheet
}
