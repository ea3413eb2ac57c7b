package internal

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(_ context.Context, e Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, Event) error {
	return errors.New("automation service unreachable")
}

func newTestController(t *testing.T, backend *MemoryBackend, autoSync bool) (*Controller, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	clock := newFakeClock()
	c, _ := Open(NewStore(backend), Options{
		Version:  "1.0",
		Notifier: notifier,
		AutoSync: autoSync,
		Now:      clock.Now,
		NewID:    sequentialIDs("id"),
	})
	t.Cleanup(c.Close)
	return c, notifier
}

func TestController_EnsureSessionIDIsIdempotent(t *testing.T) {
	c, notifier := newTestController(t, NewMemoryBackend(), false)
	ctx := context.Background()

	first := c.EnsureSessionID(ctx)
	second := c.EnsureSessionID(ctx)
	if first == "" || first != second {
		t.Fatalf("EnsureSessionID() = %q then %q, want the same non-empty id", first, second)
	}

	c.Close()
	if got := notifier.types(); len(got) != 1 || got[0] != EventSessionStarted {
		t.Errorf("events = %v, want one %s", got, EventSessionStarted)
	}
}

func TestController_StartNewSessionArchivesCurrentWork(t *testing.T) {
	c, notifier := newTestController(t, NewMemoryBackend(), false)
	ctx := context.Background()

	firstID := c.EnsureSessionID(ctx)
	if _, err := c.AddTopic(Topic{Name: " Pricing "}); err != nil {
		t.Fatalf("AddTopic() error = %v", err)
	}
	c.SetLocks(Locks{Brand: true, Topic: true})

	secondID := c.StartNewSession(ctx)
	if secondID == firstID {
		t.Fatalf("StartNewSession() reused id %q", firstID)
	}

	entries := c.Archive().List()
	if len(entries) != 1 {
		t.Fatalf("archive has %d entries, want 1", len(entries))
	}
	if entries[0].SessionID != firstID || entries[0].Title != "Pricing" {
		t.Errorf("archived entry = %+v, want session %s titled Pricing", entries[0], firstID)
	}

	locks := c.Locks()
	if locks.Brand || !locks.Topic {
		t.Errorf("Locks() = %+v, want brand lock reset and topic lock kept", locks)
	}
	if c.ActiveEntryID() != "" {
		t.Errorf("ActiveEntryID() = %q, want none after a new session", c.ActiveEntryID())
	}

	c.Close()
	want := []string{EventSessionStarted, EventSessionArchived, EventSessionStarted}
	got := notifier.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	counts := map[string]int{}
	for _, typ := range got {
		counts[typ]++
	}
	if counts[EventSessionStarted] != 2 || counts[EventSessionArchived] != 1 {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestController_AddTopicLimit(t *testing.T) {
	c, _ := newTestController(t, NewMemoryBackend(), false)

	if _, err := c.AddTopic(Topic{Name: "First"}); err != nil {
		t.Fatalf("AddTopic() error = %v", err)
	}
	if _, err := c.AddTopic(Topic{Name: "Second"}); !errors.Is(err, ErrTopicLimit) {
		t.Errorf("second AddTopic() error = %v, want ErrTopicLimit", err)
	}

	c.ClearTopics()
	if _, err := c.AddTopic(Topic{Name: "Second"}); err != nil {
		t.Errorf("AddTopic() after ClearTopics error = %v", err)
	}
	if topics := c.Topics(); len(topics) != 1 || topics[0].Name != "Second" {
		t.Errorf("Topics() = %+v, want only Second", topics)
	}
}

func TestController_RestoreThenSyncWritesNothing(t *testing.T) {
	backend := NewMemoryBackend()
	c, notifier := newTestController(t, backend, true)
	ctx := context.Background()

	entry := CreateTestEntry("entry-a", "session-a", "Pricing")
	c.Archive().entries.Set([]ArchiveEntry{entry})

	if err := c.Restore(ctx, "entry-a"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if c.Session().ID != "session-a" {
		t.Errorf("Session().ID = %q, want session-a", c.Session().ID)
	}
	if c.ActiveEntryID() != "entry-a" {
		t.Errorf("ActiveEntryID() = %q, want entry-a", c.ActiveEntryID())
	}
	if c.Brand().Tone != "bold" {
		t.Errorf("Brand() = %+v, want restored brand", c.Brand())
	}

	writes := backend.Writes()
	if got := c.Sync(); got != nil {
		t.Errorf("Sync() after restore = %+v, want nil", got)
	}
	if backend.Writes() != writes {
		t.Errorf("Sync() after restore wrote %d times", backend.Writes()-writes)
	}

	c.Close()
	if got := notifier.types(); len(got) != 1 || got[0] != EventSessionRestored {
		t.Errorf("events = %v, want one %s", got, EventSessionRestored)
	}
}

func TestController_AutoSyncUpdatesActiveEntry(t *testing.T) {
	c, _ := newTestController(t, NewMemoryBackend(), true)
	ctx := context.Background()

	c.Archive().entries.Set([]ArchiveEntry{CreateTestEntry("entry-a", "session-a", "Pricing")})
	if err := c.Restore(ctx, "entry-a"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if _, err := c.SetSnapshotSection("model", "Value ladder"); err != nil {
		t.Fatalf("SetSnapshotSection() error = %v", err)
	}

	entries := c.Archive().List()
	if len(entries) != 1 {
		t.Fatalf("archive has %d entries, want 1", len(entries))
	}
	if got, _ := entries[0].Data.Snapshot.Section("model"); got != "Value ladder" {
		t.Errorf("archived model section = %q, want Value ladder", got)
	}
	if entries[0].ID != "entry-a" || entries[0].SessionID != "session-a" {
		t.Errorf("entry identity changed: %+v", entries[0])
	}
}

func TestController_RestoreUnknownEntry(t *testing.T) {
	c, _ := newTestController(t, NewMemoryBackend(), false)

	err := c.Restore(context.Background(), "missing")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Restore() error = %v, want ErrEntryNotFound", err)
	}
	var archiveErr *ArchiveError
	if !errors.As(err, &archiveErr) || archiveErr.EntryID != "missing" {
		t.Errorf("Restore() error = %#v, want ArchiveError for missing", err)
	}
	if err := c.DeleteArchiveEntry("missing"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("DeleteArchiveEntry() error = %v, want ErrEntryNotFound", err)
	}
}

func TestController_DeleteActiveEntryClearsDesignation(t *testing.T) {
	backend := NewMemoryBackend()
	c, _ := newTestController(t, backend, false)

	c.Archive().entries.Set([]ArchiveEntry{CreateTestEntry("entry-a", "session-a", "Pricing")})
	if err := c.Restore(context.Background(), "entry-a"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if err := c.DeleteArchiveEntry("entry-a"); err != nil {
		t.Fatalf("DeleteArchiveEntry() error = %v", err)
	}
	if c.ActiveEntryID() != "" {
		t.Errorf("ActiveEntryID() = %q, want none", c.ActiveEntryID())
	}
	if _, ok, _ := backend.Get(context.Background(), KeyActiveArchive); ok {
		t.Error("active archive key should be removed")
	}
}

func TestController_ResetSession(t *testing.T) {
	tests := []struct {
		name         string
		keepSettings bool
		wantTone     string
	}{
		{name: "keep settings", keepSettings: true, wantTone: "bold"},
		{name: "clear settings", keepSettings: false, wantTone: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			c, _ := newTestController(t, backend, false)
			ctx := context.Background()

			c.EnsureSessionID(ctx)
			c.SetBrand(BrandProfile{Tone: "bold"})
			if _, err := c.AddTopic(Topic{Name: "Pricing"}); err != nil {
				t.Fatalf("AddTopic() error = %v", err)
			}
			c.Sync()
			if len(c.Archive().List()) != 1 {
				t.Fatalf("expected one archived entry before reset")
			}

			c.ResetSession(tt.keepSettings)

			if c.Session().Active() {
				t.Errorf("Session() = %+v, want none", c.Session())
			}
			if len(c.Topics()) != 0 {
				t.Errorf("Topics() = %+v, want empty", c.Topics())
			}
			for _, key := range SessionScopedKeys {
				if _, ok, _ := backend.Get(ctx, key); ok {
					t.Errorf("key %s should be removed", key)
				}
			}
			if len(c.Archive().List()) != 1 {
				t.Errorf("archive should survive reset, got %d entries", len(c.Archive().List()))
			}
			if got := c.Brand().Tone; got != tt.wantTone {
				t.Errorf("Brand().Tone = %q, want %q", got, tt.wantTone)
			}
		})
	}
}

func TestController_PersistsAcrossProcesses(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	first, _ := newTestController(t, backend, true)
	first.Archive().entries.Set([]ArchiveEntry{CreateTestEntry("entry-a", "session-a", "Pricing")})
	if err := first.Restore(ctx, "entry-a"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	first.SetPreferences([]string{" podcast ", "podcast", ""})
	first.Close()

	second, _ := newTestController(t, backend, true)
	if second.ActiveEntryID() != "entry-a" {
		t.Errorf("ActiveEntryID() = %q, want entry-a", second.ActiveEntryID())
	}
	if prefs := second.Preferences(); len(prefs) != 1 || prefs[0] != "podcast" {
		t.Errorf("Preferences() = %v, want [podcast]", prefs)
	}

	writes := backend.Writes()
	if got := second.Sync(); got != nil {
		t.Errorf("Sync() in a fresh process = %+v, want nil", got)
	}
	if backend.Writes() != writes {
		t.Errorf("Sync() in a fresh process wrote %d times", backend.Writes()-writes)
	}
}

func TestController_VersionChangeKeepsSettings(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	first, _ := newTestController(t, backend, false)
	first.EnsureSessionID(ctx)
	first.SetBrand(BrandProfile{Tone: "calm"})
	if _, err := first.AddTopic(Topic{Name: "Pricing"}); err != nil {
		t.Fatalf("AddTopic() error = %v", err)
	}
	first.Sync()
	first.Close()

	upgraded, result := Open(NewStore(backend), Options{Version: "2.0", NewID: sequentialIDs("v2")})
	defer upgraded.Close()

	if !result.Wiped || result.Previous != "1.0" {
		t.Errorf("GuardResult = %+v, want wipe from 1.0", result)
	}
	if upgraded.Session().Active() || len(upgraded.Topics()) != 0 {
		t.Error("session data should be cleared after a version change")
	}
	if len(upgraded.Archive().List()) != 0 {
		t.Error("archive should be cleared after a version change")
	}
	if upgraded.Brand().Tone != "calm" {
		t.Errorf("Brand().Tone = %q, want calm", upgraded.Brand().Tone)
	}
}

func TestController_RecheckVersionReloads(t *testing.T) {
	backend := NewMemoryBackend()
	c, _ := newTestController(t, backend, false)
	c.EnsureSessionID(context.Background())

	store := NewStore(backend)
	store.Write(KeyVersion, "0.9")

	result := c.RecheckVersion()
	if !result.Reloaded {
		t.Fatalf("RecheckVersion() = %+v, want a reload", result)
	}
	if c.Session().Active() {
		t.Errorf("Session() = %+v, want none after reload", c.Session())
	}
}

func TestController_ApplySnapshotFinalizesRawInput(t *testing.T) {
	c, _ := newTestController(t, NewMemoryBackend(), false)

	snap := c.ApplySnapshot(map[string]any{
		"sections": []any{
			map[string]any{"id": "oneLiner", "content": "Sell outcomes"},
			map[string]any{"id": "bogus", "content": "dropped"},
		},
	})
	if len(snap.Sections) != len(SectionDefs) {
		t.Fatalf("ApplySnapshot() has %d sections, want %d", len(snap.Sections), len(SectionDefs))
	}
	if snap.Sections[0].ID != "oneLiner" {
		t.Errorf("first section = %q, want oneLiner", snap.Sections[0].ID)
	}

	if _, err := c.SetSnapshotSection("bogus", "x"); err == nil {
		t.Error("SetSnapshotSection() with unknown id should fail")
	}

	reordered := c.ReorderSnapshot(0, 5)
	if reordered.Sections[5].ID != "oneLiner" {
		t.Errorf("ReorderSnapshot() last section = %q, want oneLiner", reordered.Sections[5].ID)
	}
}

func TestController_AppendChat(t *testing.T) {
	c, _ := newTestController(t, NewMemoryBackend(), false)

	c.AppendChat("user", "Shorter please")
	c.AppendChat("assistant", "Done")

	log := c.Bundle().SnapshotChat
	if len(log) != 2 || log[0].Role != "user" || log[1].Content != "Done" {
		t.Errorf("SnapshotChat = %+v, want two turns in order", log)
	}
}

func TestController_NotificationFailureIsIgnored(t *testing.T) {
	backend := NewMemoryBackend()
	c := NewController(NewStore(backend), Options{Version: "1.0", Notifier: failingNotifier{}})
	id := c.StartNewSession(context.Background())
	c.Close()

	if c.Session().ID != id {
		t.Errorf("Session().ID = %q, want %q", c.Session().ID, id)
	}
}
