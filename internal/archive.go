package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UntitledTopic is the title used when the first topic has no name
const UntitledTopic = "Untitled topic"

// UpsertOptions identifies where a bundle is archived
type UpsertOptions struct {
	SessionID string
	StartedAt time.Time
	// EntryID targets a specific entry; when empty the entry is found by SessionID
	EntryID string
}

// Restored is what Restore hands back to the caller
type Restored struct {
	Bundle  FullSessionBundle
	Session Session
	EntryID string
}

// Archive keeps past sessions, most recent first, in a persisted cell.
// It is the only writer of archive entries.
type Archive struct {
	entries *Cell[[]ArchiveEntry]
	now     func() time.Time
	newID   func() string
}

// NewArchive binds an archive to the store. now and newID may be nil.
func NewArchive(store *Store, now func() time.Time, newID func() string) *Archive {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Archive{
		entries: NewCell(store, KeyArchive, []ArchiveEntry{}, WithLoad(normalizeEntries)),
		now:     now,
		newID:   newID,
	}
}

func normalizeEntries(entries []ArchiveEntry) []ArchiveEntry {
	out := make([]ArchiveEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		e.Data = e.Data.Normalized()
		out = append(out, e)
	}
	return out
}

// ArchiveTitle derives an entry title from the topics. ok is false when no
// topic has a non-blank name, in which case the session must not be archived.
func ArchiveTitle(topics []Topic) (title string, ok bool) {
	for _, t := range topics {
		if strings.TrimSpace(t.Name) != "" {
			ok = true
			break
		}
	}
	if !ok {
		return "", false
	}
	if len(topics) > 0 {
		if name := strings.TrimSpace(topics[0].Name); name != "" {
			return name, true
		}
	}
	return UntitledTopic, true
}

// List returns a copy of all entries, most recent first
func (a *Archive) List() []ArchiveEntry {
	entries := a.entries.Get()
	out := make([]ArchiveEntry, len(entries))
	copy(out, entries)
	return out
}

// Get returns the entry with the given id
func (a *Archive) Get(entryID string) (*ArchiveEntry, bool) {
	for _, e := range a.entries.Get() {
		if e.ID == entryID {
			entry := e
			return &entry, true
		}
	}
	return nil, false
}

// Upsert archives bundle. It returns nil without touching the archive when
// there is no session or no named topic. An existing entry is matched by
// EntryID, else by SessionID; if its data and title are unchanged it is
// returned as is, without a write.
func (a *Archive) Upsert(bundle FullSessionBundle, opts UpsertOptions) *ArchiveEntry {
	if opts.SessionID == "" {
		return nil
	}
	title, ok := ArchiveTitle(bundle.Topics)
	if !ok {
		return nil
	}
	data := bundle.Normalized()

	entries := a.entries.Get()
	idx := a.find(entries, opts)

	if idx >= 0 {
		existing := entries[idx]
		if sameContent(existing.Data, existing.Title, data, title) {
			return &existing
		}

		updated := existing
		updated.Data = data
		updated.Title = title
		updated.SavedAt = a.now()

		next := make([]ArchiveEntry, len(entries))
		copy(next, entries)
		next[idx] = updated
		a.entries.Set(next)
		LogDebug("archive entry %s updated", updated.ID)
		return &updated
	}

	entry := ArchiveEntry{
		ID:        a.newID(),
		SessionID: opts.SessionID,
		StartedAt: opts.StartedAt,
		SavedAt:   a.now(),
		Title:     title,
		Data:      data,
	}
	next := make([]ArchiveEntry, 0, len(entries)+1)
	next = append(next, entry)
	next = append(next, entries...)
	a.entries.Set(next)
	LogDebug("archive entry %s created for session %s", entry.ID, entry.SessionID)
	return &entry
}

func (a *Archive) find(entries []ArchiveEntry, opts UpsertOptions) int {
	for i, e := range entries {
		if opts.EntryID != "" {
			if e.ID == opts.EntryID {
				return i
			}
			continue
		}
		if e.SessionID == opts.SessionID {
			return i
		}
	}
	return -1
}

type archivedContent struct {
	Data  FullSessionBundle `json:"data"`
	Title string            `json:"title"`
}

func sameContent(oldData FullSessionBundle, oldTitle string, newData FullSessionBundle, newTitle string) bool {
	before, err := json.Marshal(archivedContent{Data: oldData, Title: oldTitle})
	if err != nil {
		return false
	}
	after, err := json.Marshal(archivedContent{Data: newData, Title: newTitle})
	if err != nil {
		return false
	}
	return bytes.Equal(before, after)
}

// Restore looks up an entry and returns its data with the session it belongs to
func (a *Archive) Restore(entryID string) (*Restored, bool) {
	entry, ok := a.Get(entryID)
	if !ok {
		return nil, false
	}
	return &Restored{
		Bundle:  entry.Data.Normalized(),
		Session: Session{ID: entry.SessionID, StartedAt: entry.StartedAt},
		EntryID: entry.ID,
	}, true
}

// Delete removes an entry; it reports whether one was removed
func (a *Archive) Delete(entryID string) bool {
	entries := a.entries.Get()
	next := make([]ArchiveEntry, 0, len(entries))
	removed := false
	for _, e := range entries {
		if e.ID == entryID {
			removed = true
			continue
		}
		next = append(next, e)
	}
	if removed {
		a.entries.Set(next)
	}
	return removed
}

// Reload re-reads the archive list from the store
func (a *Archive) Reload() {
	a.entries.Reload()
}
