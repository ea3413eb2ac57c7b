package internal

// GuardResult describes what GuardVersion did
type GuardResult struct {
	Previous string
	Current  string
	Wiped    bool
	Reloaded bool
}

// GuardVersion compares the stored version marker with currentVersion. On a
// mismatch it removes every key in VersionWipeKeys, rewrites the marker, and,
// when a previous marker existed, calls reload so in-memory state is rebuilt
// from the cleared store. Settings-scoped keys are never touched.
//
// It must run before any session-scoped Cell is created.
func GuardVersion(store *Store, currentVersion string, reload func()) GuardResult {
	stored, _ := store.Read(KeyVersion)
	result := GuardResult{Previous: stored, Current: currentVersion}
	if stored == currentVersion {
		return result
	}

	for _, key := range VersionWipeKeys() {
		store.Remove(key)
	}
	store.Write(KeyVersion, currentVersion)
	result.Wiped = true

	if stored == "" {
		LogDebug("version marker initialized to %s", currentVersion)
		return result
	}

	LogInfo("Version changed from %s to %s, cleared session data", stored, currentVersion)
	if reload != nil {
		reload()
		result.Reloaded = true
	}
	return result
}
