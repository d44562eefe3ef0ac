// Package service defines the backend-agnostic interfaces for activities and sheets.
package service

// Activity is one recorded exercise session, normalized from the source API.
type Activity struct {
	Name string

	// Date is the calendar date the activity started, as YYYY-MM-DD.
	Date string

	ElapsedSeconds int

	// Optional, shown by the activities listing.
	SportType      string
	DistanceMeters float64
}

// Cell is a single value written to a worksheet.
type Cell struct {
	Column string // column letter, e.g. "G"
	Row    int    // 1-based
	Value  any
}
