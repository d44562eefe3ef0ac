package commands_test

import (
	"testing"

	"stravasheet/internal/commands"
)

func TestRegistry_DuplicateName(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.SyncCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.SyncCmd{}); err == nil {
		t.Error("expected error registering sync twice")
	}
}

func TestRegistry_FindByAlias(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ActivitiesCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cmd, ok := r.Find("ls")
	if !ok || cmd.Name() != "activities" {
		t.Errorf("expected alias ls to find activities, got %v %v", cmd, ok)
	}
	if _, ok := r.Find("list"); ok {
		t.Error("unexpected command for 'list'")
	}
}

func TestDefaultRegistry_All(t *testing.T) {
	var names []string
	for _, cmd := range commands.DefaultRegistry.All() {
		names = append(names, cmd.Name())
	}

	expected := []string{"activities", "help", "login", "logout", "sync", "version"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, names)
			break
		}
	}
}
