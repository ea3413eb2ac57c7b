package internal

import (
	"strings"
	"time"
)

// Session identifies one workflow attempt. An empty ID means no active session.
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	StartedAt time.Time `json:"startedAt" yaml:"started_at"`
}

// Active reports whether the session has an id
func (s Session) Active() bool {
	return s.ID != ""
}

// BrandProfile holds the brand voice settings
type BrandProfile struct {
	Archetype string `json:"archetype" yaml:"archetype"`
	Tone      string `json:"tone" yaml:"tone"`
	Audience  string `json:"audience" yaml:"audience"`
	Values    string `json:"values" yaml:"values"`
	Phrases   string `json:"phrases" yaml:"phrases"`
	Style     string `json:"style" yaml:"style"`
}

// ContentPreferences is an unordered set of tags
type ContentPreferences []string

// Normalized trims tags and drops blanks and duplicates, keeping first-seen order
func (p ContentPreferences) Normalized() ContentPreferences {
	out := make(ContentPreferences, 0, len(p))
	seen := make(map[string]bool, len(p))
	for _, tag := range p {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Topic is the subject the session produces content about
type Topic struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Context string `json:"context" yaml:"context"`
}

// TruncateTopics keeps at most the first topic
func TruncateTopics(topics []Topic) []Topic {
	if len(topics) > 1 {
		return topics[:1:1]
	}
	if topics == nil {
		return []Topic{}
	}
	return topics
}

// ChatMessage is one turn of the snapshot refinement chat
type ChatMessage struct {
	Role    string    `json:"role" yaml:"role"`
	Content string    `json:"content" yaml:"content"`
	At      time.Time `json:"at" yaml:"at"`
}

// Article is the long-form piece generated from the snapshot
type Article struct {
	Title  string `json:"title" yaml:"title"`
	HTML   string `json:"html" yaml:"html"`
	Status string `json:"status" yaml:"status"`
}

// Podcast is the audio script and its rendered asset
type Podcast struct {
	Script   string `json:"script" yaml:"script"`
	AudioURL string `json:"audioUrl" yaml:"audio_url"`
	Status   string `json:"status" yaml:"status"`
}

// SocialPost is one channel-specific post
type SocialPost struct {
	Channel string `json:"channel" yaml:"channel"`
	Content string `json:"content" yaml:"content"`
}

// SocialBundle groups the social assets of a session
type SocialBundle struct {
	Posts []SocialPost `json:"posts" yaml:"posts"`
}

// ReferenceData is imported tabular material the workflow draws on
type ReferenceData struct {
	Source string              `json:"source" yaml:"source"`
	Rows   []map[string]string `json:"rows" yaml:"rows"`
}

// WebhookConfig maps request types to automation endpoints for a session
type WebhookConfig map[string]string

// Locks records which workflow stages the user has frozen
type Locks struct {
	Brand    bool `json:"brand" yaml:"brand"`
	Topic    bool `json:"topic" yaml:"topic"`
	Snapshot bool `json:"snapshot" yaml:"snapshot"`
}

// FullSessionBundle aggregates everything an archive entry captures
type FullSessionBundle struct {
	Brand         BrandProfile       `json:"brand" yaml:"brand"`
	Preferences   ContentPreferences `json:"preferences" yaml:"preferences"`
	Topics        []Topic            `json:"topics" yaml:"topics"`
	Snapshot      Snapshot           `json:"snapshot" yaml:"snapshot"`
	SnapshotChat  []ChatMessage      `json:"snapshotChat" yaml:"snapshot_chat"`
	Article       Article            `json:"article" yaml:"article"`
	Podcast       Podcast            `json:"podcast" yaml:"podcast"`
	Social        SocialBundle       `json:"social" yaml:"social"`
	ReferenceData ReferenceData      `json:"referenceData" yaml:"reference_data"`
	WebhookConfig WebhookConfig      `json:"webhookConfig" yaml:"webhook_config"`
	Locks         Locks              `json:"locks" yaml:"locks"`
}

// Normalized returns a copy in which every component has been defaulted:
// nil collections become empty, topics are truncated and the snapshot is finalized.
func (b FullSessionBundle) Normalized() FullSessionBundle {
	out := b
	out.Preferences = b.Preferences.Normalized()
	out.Topics = TruncateTopics(b.Topics)
	out.Snapshot = Finalize(b.Snapshot)
	if out.SnapshotChat == nil {
		out.SnapshotChat = []ChatMessage{}
	}
	if out.Social.Posts == nil {
		out.Social.Posts = []SocialPost{}
	}
	if out.ReferenceData.Rows == nil {
		out.ReferenceData.Rows = []map[string]string{}
	}
	if out.WebhookConfig == nil {
		out.WebhookConfig = WebhookConfig{}
	}
	return out
}

// ArchiveEntry is a saved, restorable copy of a session
type ArchiveEntry struct {
	ID        string            `json:"id" yaml:"id"`
	SessionID string            `json:"sessionId" yaml:"session_id"`
	StartedAt time.Time         `json:"startedAt" yaml:"started_at"`
	SavedAt   time.Time         `json:"savedAt" yaml:"saved_at"`
	Title     string            `json:"title" yaml:"title"`
	Data      FullSessionBundle `json:"data" yaml:"data"`
}
