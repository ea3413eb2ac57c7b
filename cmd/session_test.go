package cmd

import (
	"strings"
	"testing"
)

func TestSessionEnsureIsStable(t *testing.T) {
	store := testStore(t)

	first := strings.TrimSpace(mustExecute(t, store, "session", "ensure"))
	second := strings.TrimSpace(mustExecute(t, store, "session", "ensure"))
	if first == "" || first != second {
		t.Fatalf("session ensure printed %q then %q, want the same id", first, second)
	}

	status := mustExecute(t, store, "status")
	if !strings.Contains(status, first) {
		t.Errorf("status should show session %s:\n%s", first, status)
	}
}

func TestSessionNewArchivesTopic(t *testing.T) {
	store := testStore(t)

	mustExecute(t, store, "topic", "set", "Pricing", "pages")
	mustExecute(t, store, "session", "new")

	list := mustExecute(t, store, "archive", "list")
	if !strings.Contains(list, "Pricing pages") {
		t.Errorf("archive list should contain the previous topic:\n%s", list)
	}
}

func TestSessionReset(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantTone  string
		wantTopic string
	}{
		{name: "keeps settings", args: []string{"session", "reset"}, wantTone: "bold"},
		{name: "clears settings", args: []string{"session", "reset", "--settings"}, wantTone: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testStore(t)
			mustExecute(t, store, "settings", "brand", "tone=bold")
			mustExecute(t, store, "topic", "set", "Pricing")

			mustExecute(t, store, tt.args...)

			status := mustExecute(t, store, "status")
			if !strings.Contains(status, "none") {
				t.Errorf("status should show no session/topic after reset:\n%s", status)
			}
			settings := mustExecute(t, store, "settings", "show")
			if !strings.Contains(settings, tt.wantTone) {
				t.Errorf("settings should show tone %q:\n%s", tt.wantTone, settings)
			}
			if tt.wantTone == "-" && strings.Contains(settings, "bold") {
				t.Errorf("settings should be cleared:\n%s", settings)
			}
		})
	}
}
