package internal

import (
	"time"
)

// CreateTestBundle creates a populated session bundle. An empty topicName
// yields a topic without a name, which the archive refuses.
func CreateTestBundle(topicName string) FullSessionBundle {
	snapshot := SetSection(EmptySnapshot(), "problem", "Readers skim pricing pages")
	snapshot = SetSection(snapshot, "oneLiner", "Price the outcome, not the hours")

	return FullSessionBundle{
		Brand: BrandProfile{
			Archetype: "sage",
			Tone:      "bold",
			Audience:  "founders",
		},
		Preferences: ContentPreferences{"linkedin", "newsletter"},
		Topics:      []Topic{{ID: "topic-1", Name: topicName, Context: "B2B SaaS"}},
		Snapshot:    snapshot,
		SnapshotChat: []ChatMessage{
			{Role: "user", Content: "Make it punchier", At: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		},
		Article: Article{Title: "Pricing that sells", HTML: "<p>Draft</p>", Status: "draft"},
		Social: SocialBundle{Posts: []SocialPost{
			{Channel: "linkedin", Content: "Stop pricing hours."},
		}},
		WebhookConfig: WebhookConfig{"article": "https://hooks.example.com/article"},
		Locks:         Locks{Brand: true},
	}
}

// CreateTestEntry creates an archive entry around CreateTestBundle
func CreateTestEntry(id, sessionID, topicName string) ArchiveEntry {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return ArchiveEntry{
		ID:        id,
		SessionID: sessionID,
		StartedAt: started,
		SavedAt:   started.Add(time.Hour),
		Title:     topicName,
		Data:      CreateTestBundle(topicName).Normalized(),
	}
}
