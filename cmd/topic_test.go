package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/studio-session/internal"
)

func TestTopicSetRejectsSecondTopic(t *testing.T) {
	store := testStore(t)

	mustExecute(t, store, "topic", "set", "Pricing")
	_, err := executeCommand(t, store, "topic", "set", "Hiring")
	if !errors.Is(err, internal.ErrTopicLimit) {
		t.Fatalf("second topic error = %v, want ErrTopicLimit", err)
	}

	mustExecute(t, store, "topic", "clear")
	mustExecute(t, store, "topic", "set", "Hiring", "--context", "Series A")

	status := mustExecute(t, store, "status")
	if !strings.Contains(status, "Hiring") {
		t.Errorf("status should show the new topic:\n%s", status)
	}
}

func TestTopicSetRequiresName(t *testing.T) {
	store := testStore(t)
	if _, err := executeCommand(t, store, "topic", "set", "   "); err == nil {
		t.Error("expected an error for a blank topic name")
	}
}
