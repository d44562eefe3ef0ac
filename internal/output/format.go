// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"stravasheet/internal/service"
)

// Minutes converts elapsed seconds to whole minutes, truncating.
func Minutes(seconds int) int {
	return seconds / 60
}

// Clock formats elapsed seconds as H:MM:SS, or M:SS under an hour.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSkip reports an activity whose date has no row in the worksheet.
// Format: "No row found for date {DATE}, skipping '{NAME}'\n"
func FormatSkip(w io.Writer, sheetDate string, activity service.Activity) {
	fmt.Fprintf(w, "No row found for date %s, skipping '%s'\n", sheetDate, normalizeName(activity.Name))
}

// FormatUpdated reports a successful batched write.
func FormatUpdated(w io.Writer, rows int, worksheet string) {
	fmt.Fprintf(w, "Updated %d row(s) in %s\n", rows, worksheet)
}

// FormatNoMatches reports that nothing was written.
func FormatNoMatches(w io.Writer, worksheet string) {
	fmt.Fprintf(w, "No matching rows found in %s\n", worksheet)
}

// FormatPlanned reports a write that a dry run would have made.
// Format: "Would update row {ROW}: {NAME}, {DURATION}\n"
func FormatPlanned(w io.Writer, row int, activity service.Activity, duration any) {
	fmt.Fprintf(w, "Would update row %d: %s, %v\n", row, normalizeName(activity.Name), duration)
}

// FormatActivity formats an activity line for the activities command.
// Format: "{DATE}  {DURATION:>8}  {DISTANCE:>9}  {SPORT}  {NAME}\n"
// Missing sport type or distance print as "-".
func FormatActivity(w io.Writer, activity service.Activity) {
	sport := strings.TrimSpace(activity.SportType)
	if sport == "" {
		sport = "-"
	}
	fmt.Fprintf(w, "%s  %8s  %9s  %s  %s\n",
		activity.Date, Clock(activity.ElapsedSeconds), Kilometers(activity.DistanceMeters), sport, normalizeName(activity.Name))
}

// Kilometers formats a distance in meters as km to two decimals, or "-" when unknown.
func Kilometers(meters float64) string {
	if meters <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}

// normalizeName makes an activity name safe for a single output line.
// Empty names become "(untitled)".
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
