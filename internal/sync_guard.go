package internal

// SyncGuard pushes the live bundle into the archive only when it actually
// changed since the last push. It remembers the active entry id and the
// fingerprint of the last bundle written for it.
type SyncGuard struct {
	archive  *Archive
	activeID string
	last     string
}

// NewSyncGuard creates a guard with no active entry
func NewSyncGuard(archive *Archive) *SyncGuard {
	return &SyncGuard{archive: archive}
}

// ActiveID returns the entry future syncs target, or ""
func (g *SyncGuard) ActiveID() string {
	return g.activeID
}

// Seed makes entryID the active target and records bundle as already pushed
func (g *SyncGuard) Seed(entryID string, bundle FullSessionBundle) {
	g.activeID = entryID
	g.last = Fingerprint(bundle.Normalized())
}

// Clear drops the active designation and the held fingerprint
func (g *SyncGuard) Clear() {
	g.activeID = ""
	g.last = ""
}

// Sync upserts bundle for session unless it matches the last pushed bundle.
// The fingerprint is re-armed only after the upsert returned an entry, and
// with no active entry the returned one becomes active. It returns the entry
// written or matched, or nil when nothing was pushed.
func (g *SyncGuard) Sync(bundle FullSessionBundle, session Session) *ArchiveEntry {
	fp := Fingerprint(bundle.Normalized())
	if fp != "" && fp == g.last {
		return nil
	}

	entry := g.archive.Upsert(bundle, UpsertOptions{
		SessionID: session.ID,
		StartedAt: session.StartedAt,
		EntryID:   g.activeID,
	})
	if entry != nil {
		g.last = fp
		if g.activeID == "" {
			g.activeID = entry.ID
		}
	}
	return entry
}
