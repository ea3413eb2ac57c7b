package internal

// SessionKeyPrefix is shared by every session-scoped key
const SessionKeyPrefix = "studio.session."

const (
	KeySession       = SessionKeyPrefix + "current"
	KeyLocks         = SessionKeyPrefix + "locks"
	KeyReferenceData = SessionKeyPrefix + "reference"
	KeyTopics        = SessionKeyPrefix + "topics"
	KeySnapshot      = SessionKeyPrefix + "snapshot"
	KeySnapshotChat  = SessionKeyPrefix + "snapshotChat"
	KeyArticle       = SessionKeyPrefix + "article"
	KeyPodcast       = SessionKeyPrefix + "podcast"
	KeySocial        = SessionKeyPrefix + "social"
	KeyWebhookConfig = SessionKeyPrefix + "webhooks"
	KeyActiveArchive = SessionKeyPrefix + "activeArchive"

	KeyBrandProfile = "studio.brand"
	KeyPreferences  = "studio.preferences"

	KeyArchive = "studio.archive"
	KeyVersion = "studio.version"
)

// SessionScopedKeys lists the keys cleared when a new session is reset.
// The archive list is not included; see VersionWipeKeys.
var SessionScopedKeys = []string{
	KeySession,
	KeyLocks,
	KeyReferenceData,
	KeyTopics,
	KeySnapshot,
	KeySnapshotChat,
	KeyArticle,
	KeyPodcast,
	KeySocial,
	KeyWebhookConfig,
	KeyActiveArchive,
}

// SettingsScopedKeys outlive sessions and version upgrades
var SettingsScopedKeys = []string{
	KeyBrandProfile,
	KeyPreferences,
}

// VersionWipeKeys is everything removed when the build version changes:
// the session-scoped set plus the archive list.
func VersionWipeKeys() []string {
	keys := make([]string, 0, len(SessionScopedKeys)+1)
	keys = append(keys, SessionScopedKeys...)
	return append(keys, KeyArchive)
}
