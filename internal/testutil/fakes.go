// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"stravasheet/internal/service"
)

// FakeSource is an in-memory service.ActivitySource.
type FakeSource struct {
	mu         sync.Mutex
	activities []service.Activity

	// Err is returned by RecentActivities when set.
	Err error

	// Requested records the count of each call.
	Requested []int
}

// NewFakeSource creates a FakeSource returning activities, most recent first.
func NewFakeSource(activities ...service.Activity) *FakeSource {
	return &FakeSource{activities: activities}
}

// RecentActivities implements service.ActivitySource.
func (f *FakeSource) RecentActivities(ctx context.Context, count int) ([]service.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Requested = append(f.Requested, count)
	if f.Err != nil {
		return nil, f.Err
	}

	n := min(count, len(f.activities))
	result := make([]service.Activity, n)
	copy(result, f.activities[:n])
	return result, nil
}

// FakeSheet is an in-memory service.Sheet holding one column per worksheet
// and recording every batch written.
type FakeSheet struct {
	mu      sync.Mutex
	columns map[string]map[string][]string // worksheet -> column -> values

	// Error injection for testing
	WorksheetErr error
	ColumnErr    error
	UpdateErr    error

	// Batches records the cells of each BatchUpdate call.
	Batches [][]service.Cell
}

// NewFakeSheet creates an empty FakeSheet.
func NewFakeSheet() *FakeSheet {
	return &FakeSheet{columns: make(map[string]map[string][]string)}
}

// SetColumn sets the values of a column, creating the worksheet if needed.
func (f *FakeSheet) SetColumn(worksheet, column string, values ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.columns[worksheet] == nil {
		f.columns[worksheet] = make(map[string][]string)
	}
	f.columns[worksheet][column] = values
}

// Worksheet implements service.Sheet.
func (f *FakeSheet) Worksheet(ctx context.Context, name string) (string, error) {
	if f.WorksheetErr != nil {
		return "", f.WorksheetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	want := strings.ToLower(strings.TrimSpace(name))
	for title := range f.columns {
		if strings.ToLower(strings.TrimSpace(title)) == want {
			return title, nil
		}
	}
	return "", fmt.Errorf("worksheet %q: %w", name, service.ErrNotFound)
}

// Column implements service.Sheet.
func (f *FakeSheet) Column(ctx context.Context, worksheet, column string) ([]string, error) {
	if f.ColumnErr != nil {
		return nil, f.ColumnErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	values := f.columns[worksheet][column]
	result := make([]string, len(values))
	copy(result, values)
	return result, nil
}

// BatchUpdate implements service.Sheet.
func (f *FakeSheet) BatchUpdate(ctx context.Context, worksheet string, cells []service.Cell) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if len(cells) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	batch := make([]service.Cell, len(cells))
	copy(batch, cells)
	f.Batches = append(f.Batches, batch)
	return nil
}
