package internal

import (
	"encoding/json"
	"testing"
)

func TestTruncateTopics(t *testing.T) {
	tests := []struct {
		name   string
		topics []Topic
		want   int
	}{
		{name: "nil", topics: nil, want: 0},
		{name: "one", topics: []Topic{{Name: "a"}}, want: 1},
		{name: "legacy multi-topic", topics: []Topic{{Name: "a"}, {Name: "b"}, {Name: "c"}}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateTopics(tt.topics)
			if got == nil || len(got) != tt.want {
				t.Errorf("TruncateTopics() = %v, want %d non-nil topics", got, tt.want)
			}
			if tt.want == 1 && got[0].Name != "a" {
				t.Errorf("TruncateTopics() kept %q, want the first topic", got[0].Name)
			}
		})
	}
}

func TestTruncateTopics_DoesNotAliasAppend(t *testing.T) {
	topics := []Topic{{Name: "a"}, {Name: "b"}}
	got := TruncateTopics(topics)
	_ = append(got, Topic{Name: "x"})
	if topics[1].Name != "b" {
		t.Errorf("append through truncated slice overwrote the source: %v", topics)
	}
}

func TestContentPreferences_Normalized(t *testing.T) {
	got := ContentPreferences{" linkedin", "", "linkedin", "podcast ", "  "}.Normalized()
	if len(got) != 2 || got[0] != "linkedin" || got[1] != "podcast" {
		t.Errorf("Normalized() = %v, want [linkedin podcast]", got)
	}
	if empty := ContentPreferences(nil).Normalized(); empty == nil {
		t.Error("Normalized() of nil should be an empty, non-nil set")
	}
}

func TestFullSessionBundle_Normalized(t *testing.T) {
	var bundle FullSessionBundle
	data, err := json.Marshal(bundle.Normalized())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"preferences", "topics", "snapshotChat", "webhookConfig"} {
		if string(decoded[key]) == "null" {
			t.Errorf("%s should serialize as an empty collection, got null", key)
		}
	}

	normalized := bundle.Normalized()
	if len(normalized.Snapshot.Sections) != len(SectionDefs) {
		t.Errorf("snapshot should be finalized, got %d sections", len(normalized.Snapshot.Sections))
	}
}
