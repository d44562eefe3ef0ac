// Package tracker matches activities to worksheet rows by date.
package tracker

import (
	"fmt"
	"time"

	"stravasheet/internal/config"
	"stravasheet/internal/output"
	"stravasheet/internal/service"
)

const dateLayout = "2006-01-02"

// Update is an activity matched to a worksheet row.
type Update struct {
	Row       int
	SheetDate string
	Activity  service.Activity
	Duration  any
}

// Skip is an activity whose date has no row.
type Skip struct {
	SheetDate string
	Activity  service.Activity
}

// Plan is the outcome of matching a list of activities against a date column.
type Plan struct {
	Updates []Update
	Skipped []Skip
}

// FindRow returns the 1-based row of the first cell equal to value.
func FindRow(column []string, value string) (int, bool) {
	for i, v := range column {
		if v == value {
			return i + 1, true
		}
	}
	return 0, false
}

// SheetDate reformats a YYYY-MM-DD date with a Go time layout.
func SheetDate(date, layout string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid activity date %q", date)
	}
	return t.Format(layout), nil
}

// Duration renders elapsed seconds in the layout's duration format.
// Minutes are an int so the sheet stores a number.
func Duration(seconds int, format string) any {
	if format == config.DurationClock {
		return output.Clock(seconds)
	}
	return output.Minutes(seconds)
}

// BuildPlan matches each activity, in order, to the first row of column
// holding its reformatted date. The column is a snapshot and is not re-read.
func BuildPlan(activities []service.Activity, column []string, layout config.Layout) (Plan, error) {
	var plan Plan

	for _, activity := range activities {
		sheetDate, err := SheetDate(activity.Date, layout.DateFormat)
		if err != nil {
			return Plan{}, err
		}

		row, ok := FindRow(column, sheetDate)
		if !ok {
			plan.Skipped = append(plan.Skipped, Skip{SheetDate: sheetDate, Activity: activity})
			continue
		}

		plan.Updates = append(plan.Updates, Update{
			Row:       row,
			SheetDate: sheetDate,
			Activity:  activity,
			Duration:  Duration(activity.ElapsedSeconds, layout.DurationFormat),
		})
	}

	return plan, nil
}

// Cells returns the name and duration cells of every update, in activity order.
// Two activities on the same row both appear; the later one wins when written.
func (p Plan) Cells(layout config.Layout) []service.Cell {
	cells := make([]service.Cell, 0, 2*len(p.Updates))
	for _, u := range p.Updates {
		cells = append(cells,
			service.Cell{Column: layout.NameColumn, Row: u.Row, Value: u.Activity.Name},
			service.Cell{Column: layout.DurationColumn, Row: u.Row, Value: u.Duration},
		)
	}
	return cells
}
