package cmd

import (
	"strings"
	"testing"
)

func TestHealthcheck(t *testing.T) {
	store := testStore(t)

	out := mustExecute(t, store, "healthcheck")
	for _, want := range []string{"Configuration loaded", "sqlite store is reachable", "No version marker yet", "Health check passed"} {
		if !strings.Contains(out, want) {
			t.Errorf("healthcheck output should contain %q:\n%s", want, out)
		}
	}

	mustExecute(t, store, "session", "ensure")
	out = mustExecute(t, store, "healthcheck")
	if !strings.Contains(out, "Version marker matches dev") {
		t.Errorf("healthcheck should see the version marker:\n%s", out)
	}
}

func TestHealthcheckMemoryBackend(t *testing.T) {
	store := testStore(t)
	out := mustExecute(t, store, "--backend", "memory", "healthcheck")
	if !strings.Contains(out, "ephemeral") {
		t.Errorf("memory backend should be flagged as ephemeral:\n%s", out)
	}
}
