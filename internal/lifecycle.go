package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options configures a Controller. Nothing in the controller reads globals;
// everything environment-specific is passed in here.
type Options struct {
	// Version is the running build version checked by the namespace guard
	Version string
	// Notifier receives fire-and-forget lifecycle events; nil means NoopNotifier
	Notifier Notifier
	// NotifyTimeout bounds each notification; zero means 10s
	NotifyTimeout time.Duration
	// AutoSync pushes the bundle through the sync guard after every change
	AutoSync bool
	Now      func() time.Time
	NewID    func() string
}

// Controller owns the session, every persisted cell, and the decision of
// which keys are session-scoped and which are settings-scoped.
type Controller struct {
	store *Store
	opts  Options

	session   *Cell[Session]
	locks     *Cell[Locks]
	reference *Cell[ReferenceData]
	topics    *Cell[[]Topic]
	snapshot  *Cell[Snapshot]
	chat      *Cell[[]ChatMessage]
	article   *Cell[Article]
	podcast   *Cell[Podcast]
	social    *Cell[SocialBundle]
	webhooks  *Cell[WebhookConfig]
	active    *Cell[string]

	brand *Cell[BrandProfile]
	prefs *Cell[ContentPreferences]

	archive *Archive
	guard   *SyncGuard

	suspended int
	pending   sync.WaitGroup
}

// Open runs the version guard and then builds the controller, so no cell
// ever observes data written by a different build.
func Open(store *Store, opts Options) (*Controller, GuardResult) {
	result := GuardVersion(store, opts.Version, nil)
	return NewController(store, opts), result
}

// RecheckVersion runs the version guard again for a long-lived controller,
// e.g. after another build touched the same store. On a wipe every cell is
// reloaded from the cleared store.
func (c *Controller) RecheckVersion() GuardResult {
	return GuardVersion(c.store, c.opts.Version, c.Reload)
}

// NewController binds a controller to the store. Callers that did not go
// through Open must run GuardVersion first.
func NewController(store *Store, opts Options) *Controller {
	if opts.Notifier == nil {
		opts.Notifier = NoopNotifier{}
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	c := &Controller{store: store, opts: opts}
	c.session = NewCell(store, KeySession, Session{})
	c.locks = NewCell(store, KeyLocks, Locks{})
	c.reference = NewCell(store, KeyReferenceData, ReferenceData{Rows: []map[string]string{}})
	c.topics = NewCell(store, KeyTopics, []Topic{}, WithLoad(TruncateTopics))
	c.snapshot = NewCell(store, KeySnapshot, EmptySnapshot(), WithLoad(func(s Snapshot) Snapshot { return Finalize(s) }))
	c.chat = NewCell(store, KeySnapshotChat, []ChatMessage{})
	c.article = NewCell(store, KeyArticle, Article{})
	c.podcast = NewCell(store, KeyPodcast, Podcast{})
	c.social = NewCell(store, KeySocial, SocialBundle{Posts: []SocialPost{}})
	c.webhooks = NewCell(store, KeyWebhookConfig, WebhookConfig{})
	c.active = NewCell(store, KeyActiveArchive, "")
	c.brand = NewCell(store, KeyBrandProfile, BrandProfile{})
	c.prefs = NewCell(store, KeyPreferences, ContentPreferences{}, WithLoad(ContentPreferences.Normalized))

	c.archive = NewArchive(store, opts.Now, opts.NewID)
	c.guard = NewSyncGuard(c.archive)
	c.armGuard()

	if opts.AutoSync {
		c.subscribeAutoSync()
	}
	return c
}

// armGuard restores the guard's memory of what was last pushed, so a fresh
// process does not re-push an unchanged bundle.
func (c *Controller) armGuard() {
	if id := c.active.Get(); id != "" {
		if entry, ok := c.archive.Get(id); ok {
			c.guard.Seed(id, entry.Data)
			return
		}
		c.active.Clear()
	}
}

func (c *Controller) subscribeAutoSync() {
	onChange := func() {
		if c.suspended == 0 {
			c.Sync()
		}
	}
	c.brand.Subscribe(func(BrandProfile) { onChange() })
	c.prefs.Subscribe(func(ContentPreferences) { onChange() })
	c.topics.Subscribe(func([]Topic) { onChange() })
	c.snapshot.Subscribe(func(Snapshot) { onChange() })
	c.chat.Subscribe(func([]ChatMessage) { onChange() })
	c.article.Subscribe(func(Article) { onChange() })
	c.podcast.Subscribe(func(Podcast) { onChange() })
	c.social.Subscribe(func(SocialBundle) { onChange() })
	c.reference.Subscribe(func(ReferenceData) { onChange() })
	c.webhooks.Subscribe(func(WebhookConfig) { onChange() })
	c.locks.Subscribe(func(Locks) { onChange() })
}

// batch runs fn with auto-sync suspended
func (c *Controller) batch(fn func()) {
	c.suspended++
	defer func() { c.suspended-- }()
	fn()
}

func (c *Controller) sessionCells() []interface{ Clear() } {
	return []interface{ Clear() }{
		c.session, c.locks, c.reference, c.topics, c.snapshot, c.chat,
		c.article, c.podcast, c.social, c.webhooks, c.active,
	}
}

// Bundle assembles the current state into a normalized bundle
func (c *Controller) Bundle() FullSessionBundle {
	return FullSessionBundle{
		Brand:         c.brand.Get(),
		Preferences:   c.prefs.Get(),
		Topics:        c.topics.Get(),
		Snapshot:      c.snapshot.Get(),
		SnapshotChat:  c.chat.Get(),
		Article:       c.article.Get(),
		Podcast:       c.podcast.Get(),
		Social:        c.social.Get(),
		ReferenceData: c.reference.Get(),
		WebhookConfig: c.webhooks.Get(),
		Locks:         c.locks.Get(),
	}.Normalized()
}

// Session returns the current session; an empty ID means none
func (c *Controller) Session() Session { return c.session.Get() }

// Archive exposes the archive for listing and lookups
func (c *Controller) Archive() *Archive { return c.archive }

// ActiveEntryID returns the archive entry continuous sync targets, or ""
func (c *Controller) ActiveEntryID() string { return c.guard.ActiveID() }

// StartNewSession archives the current work under the current session, then
// starts a new session and announces it. It returns the new session id.
func (c *Controller) StartNewSession(ctx context.Context) string {
	current := c.session.Get()
	var id string

	c.batch(func() {
		if current.Active() {
			entry := c.archive.Upsert(c.Bundle(), UpsertOptions{
				SessionID: current.ID,
				StartedAt: current.StartedAt,
				EntryID:   c.guard.ActiveID(),
			})
			if entry != nil {
				c.notify(ctx, EventSessionArchived, map[string]any{
					"sessionId": entry.SessionID,
					"entryId":   entry.ID,
					"title":     entry.Title,
				})
			}
		}

		c.guard.Clear()
		c.active.Clear()

		next := Session{ID: c.opts.NewID(), StartedAt: c.opts.Now()}
		c.session.Set(next)
		c.locks.Update(func(l Locks) Locks {
			l.Brand = false
			return l
		})
		id = next.ID

		c.notify(ctx, EventSessionStarted, map[string]any{
			"sessionId": next.ID,
			"startedAt": next.StartedAt.UTC().Format(time.RFC3339),
		})
	})

	LogInfo("Started session %s", id)
	return id
}

// EnsureSessionID returns the current session id, starting a session if
// there is none. It is the only place a session is created implicitly.
func (c *Controller) EnsureSessionID(ctx context.Context) string {
	if s := c.session.Get(); s.Active() {
		return s.ID
	}
	return c.StartNewSession(ctx)
}

// ResetSession deletes every session-scoped key and returns those cells to
// their defaults. The archive list is left alone; settings survive when
// keepSettings is true.
func (c *Controller) ResetSession(keepSettings bool) {
	c.batch(func() {
		for _, cell := range c.sessionCells() {
			cell.Clear()
		}
		c.guard.Clear()
		if !keepSettings {
			c.resetSettings()
		}
	})
}

// ResetSettings clears the brand profile and content preferences only
func (c *Controller) ResetSettings() {
	c.batch(c.resetSettings)
}

func (c *Controller) resetSettings() {
	c.brand.Clear()
	c.prefs.Clear()
}

// Reload re-reads every cell and the archive from the store, e.g. after
// another process changed it or the version guard wiped it.
func (c *Controller) Reload() {
	c.session.Reload()
	c.locks.Reload()
	c.reference.Reload()
	c.topics.Reload()
	c.snapshot.Reload()
	c.chat.Reload()
	c.article.Reload()
	c.podcast.Reload()
	c.social.Reload()
	c.webhooks.Reload()
	c.active.Reload()
	c.brand.Reload()
	c.prefs.Reload()
	c.archive.Reload()
	c.guard.Clear()
	c.armGuard()
}

// Restore replaces the live state with an archive entry, re-seeds the
// session from it and makes it the target of future syncs.
func (c *Controller) Restore(ctx context.Context, entryID string) error {
	restored, ok := c.archive.Restore(entryID)
	if !ok {
		return &ArchiveError{EntryID: entryID, Err: ErrEntryNotFound}
	}

	c.batch(func() {
		b := restored.Bundle
		c.session.Set(restored.Session)
		c.brand.Set(b.Brand)
		c.prefs.Set(b.Preferences)
		c.topics.Set(b.Topics)
		c.snapshot.Set(b.Snapshot)
		c.chat.Set(b.SnapshotChat)
		c.article.Set(b.Article)
		c.podcast.Set(b.Podcast)
		c.social.Set(b.Social)
		c.reference.Set(b.ReferenceData)
		c.webhooks.Set(b.WebhookConfig)
		c.locks.Set(b.Locks)
		c.active.Set(restored.EntryID)
		c.guard.Seed(restored.EntryID, b)
	})

	c.notify(ctx, EventSessionRestored, map[string]any{
		"sessionId": restored.Session.ID,
		"entryId":   restored.EntryID,
	})
	LogInfo("Restored archive entry %s (session %s)", restored.EntryID, restored.Session.ID)
	return nil
}

// DeleteArchiveEntry removes an entry, dropping the active designation if it
// pointed there.
func (c *Controller) DeleteArchiveEntry(entryID string) error {
	if !c.archive.Delete(entryID) {
		return &ArchiveError{EntryID: entryID, Err: ErrEntryNotFound}
	}
	if c.guard.ActiveID() == entryID {
		c.guard.Clear()
		c.active.Clear()
	}
	return nil
}

// Sync pushes the current bundle through the sync guard and persists the
// active designation the guard settled on.
func (c *Controller) Sync() *ArchiveEntry {
	entry := c.guard.Sync(c.Bundle(), c.session.Get())
	if id := c.guard.ActiveID(); id != "" && id != c.active.Get() {
		c.active.Set(id)
	}
	return entry
}

// Topics returns the active topics (at most one)
func (c *Controller) Topics() []Topic { return c.topics.Get() }

// AddTopic adds the session's topic. A second topic is rejected.
func (c *Controller) AddTopic(topic Topic) (Topic, error) {
	if len(c.topics.Get()) >= 1 {
		return Topic{}, ErrTopicLimit
	}
	topic.Name = strings.TrimSpace(topic.Name)
	if topic.ID == "" {
		topic.ID = c.opts.NewID()
	}
	c.topics.Set([]Topic{topic})
	return topic, nil
}

// ClearTopics removes the topic so a new one can be added
func (c *Controller) ClearTopics() {
	c.topics.Set([]Topic{})
}

// Brand returns the brand profile
func (c *Controller) Brand() BrandProfile { return c.brand.Get() }

// SetBrand replaces the brand profile
func (c *Controller) SetBrand(b BrandProfile) { c.brand.Set(b) }

// Preferences returns the content preference tags
func (c *Controller) Preferences() ContentPreferences { return c.prefs.Get() }

// SetPreferences replaces the content preference tags
func (c *Controller) SetPreferences(tags []string) {
	c.prefs.Set(ContentPreferences(tags).Normalized())
}

// Snapshot returns the finalized snapshot
func (c *Controller) Snapshot() Snapshot { return c.snapshot.Get() }

// ApplySnapshot finalizes untrusted raw input (a webhook response, an
// imported file) and persists the result.
func (c *Controller) ApplySnapshot(raw any) Snapshot {
	snap := Finalize(raw)
	c.snapshot.Set(snap)
	return snap
}

// ReorderSnapshot moves a section from one position to another
func (c *Controller) ReorderSnapshot(from, to int) Snapshot {
	snap := Reorder(c.snapshot.Get(), from, to)
	c.snapshot.Set(snap)
	return snap
}

// SetSnapshotSection edits one canonical section
func (c *Controller) SetSnapshotSection(id, content string) (Snapshot, error) {
	if !IsCanonicalSection(id) {
		return Snapshot{}, fmt.Errorf("unknown snapshot section %q", id)
	}
	snap := SetSection(c.snapshot.Get(), id, content)
	c.snapshot.Set(snap)
	return snap, nil
}

// AppendChat records a turn of the snapshot chat
func (c *Controller) AppendChat(role, content string) {
	msg := ChatMessage{Role: role, Content: content, At: c.opts.Now()}
	c.chat.Update(func(log []ChatMessage) []ChatMessage {
		next := make([]ChatMessage, 0, len(log)+1)
		next = append(next, log...)
		return append(next, msg)
	})
}

// Locks returns the stage locks
func (c *Controller) Locks() Locks { return c.locks.Get() }

// SetLocks replaces the stage locks
func (c *Controller) SetLocks(l Locks) { c.locks.Set(l) }

// SetArticle replaces the article
func (c *Controller) SetArticle(a Article) { c.article.Set(a) }

// SetPodcast replaces the podcast
func (c *Controller) SetPodcast(p Podcast) { c.podcast.Set(p) }

// SetSocial replaces the social bundle
func (c *Controller) SetSocial(s SocialBundle) { c.social.Set(s) }

// SetReferenceData replaces the imported reference data
func (c *Controller) SetReferenceData(r ReferenceData) { c.reference.Set(r) }

// SetWebhookConfig replaces the per-session webhook routes
func (c *Controller) SetWebhookConfig(w WebhookConfig) { c.webhooks.Set(w) }

// notify sends an event in the background; failures are only logged
func (c *Controller) notify(ctx context.Context, eventType string, payload map[string]any) {
	event := Event{Type: eventType, At: c.opts.Now(), Payload: payload}
	notifier := c.opts.Notifier
	timeout := c.opts.NotifyTimeout

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := notifier.Notify(nctx, event); err != nil {
			LogWarn("Notification %s failed: %v", eventType, err)
		}
	}()
}

// Close waits for in-flight notifications
func (c *Controller) Close() {
	c.pending.Wait()
}
