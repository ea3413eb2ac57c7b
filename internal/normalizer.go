package internal

import (
	"encoding/json"
	"strconv"
)

// Normalize converts an arbitrary or legacy snapshot document into the
// canonical form. raw may be a decoded JSON value, raw JSON bytes, a JSON
// string, or any value that marshals to JSON (including Snapshot).
// Anything that is not an object yields the canonical empty snapshot.
func Normalize(raw any) Snapshot {
	snap := EmptySnapshot()

	obj, ok := asObject(raw)
	if !ok {
		return snap
	}

	present := canonicalSections(obj["sections"])

	order := make([]SnapshotSection, 0, len(SectionDefs))
	order = append(order, present...)
	for _, def := range SectionDefs {
		if !containsSection(present, def.ID) {
			order = append(order, SnapshotSection{ID: def.ID})
		}
	}
	snap.Sections = order

	draft, _ := obj["aiDraft"].(string)
	if draft == "" {
		draft, _ = obj["generatedHtml"].(string)
	}
	if draft == "" && len(present) == 0 {
		draft, _ = obj["text"].(string)
	}
	snap.AIDraft = RenderHTML(draft)

	snap.Text = renderSections(snap.Sections)
	return snap
}

// NormalizeJSON decodes data and normalizes it; invalid JSON yields the empty snapshot
func NormalizeJSON(data []byte) Snapshot {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		LogDebug("%v", &ParseError{Source: "snapshot", Key: "json", Err: err})
		return EmptySnapshot()
	}
	return Normalize(v)
}

// Finalize normalizes raw and recomputes the derived text. Every snapshot
// must pass through Finalize before it is persisted or displayed.
func Finalize(raw any) Snapshot {
	snap := Normalize(raw)
	snap.Text = renderSections(snap.Sections)
	return snap
}

// canonicalSections filters a raw section list down to canonical ids in
// first-appearance order. Later duplicates of an id are ignored.
func canonicalSections(v any) []SnapshotSection {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]SnapshotSection, 0, len(SectionDefs))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := entry["id"].(string)
		if !IsCanonicalSection(id) || containsSection(out, id) {
			continue
		}
		out = append(out, SnapshotSection{ID: id, Content: coerceString(entry["content"])})
	}
	return out
}

func containsSection(sections []SnapshotSection, id string) bool {
	for _, s := range sections {
		if s.ID == id {
			return true
		}
	}
	return false
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// asObject turns raw into a generic JSON object if it is one
func asObject(raw any) (map[string]any, bool) {
	switch t := raw.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return t, true
	case []byte:
		return decodeObject(t)
	case json.RawMessage:
		return decodeObject(t)
	case string:
		return decodeObject([]byte(t))
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, false
	}
	return decodeObject(data)
}

func decodeObject(data []byte) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
