package internal

// SectionDef describes one canonical snapshot section
type SectionDef struct {
	ID    string
	Title string
}

// SectionDefs is the canonical section set in definition order
var SectionDefs = []SectionDef{
	{ID: "problem", Title: "The Problem"},
	{ID: "model", Title: "The Model"},
	{ID: "metaphor", Title: "The Metaphor"},
	{ID: "caseStat", Title: "Case or Stat"},
	{ID: "actionSteps", Title: "Action Steps"},
	{ID: "oneLiner", Title: "One-Liner"},
}

// SectionTitle returns the canonical title for id, or "" if id is not canonical
func SectionTitle(id string) string {
	for _, def := range SectionDefs {
		if def.ID == id {
			return def.Title
		}
	}
	return ""
}

// IsCanonicalSection reports whether id is one of the canonical section ids
func IsCanonicalSection(id string) bool {
	return SectionTitle(id) != ""
}

// SnapshotSection is one section of the delivery snapshot
type SnapshotSection struct {
	ID      string `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

// Snapshot is the six-section delivery document. Text is derived from
// Sections on every normalization and is never authoritative.
type Snapshot struct {
	Sections []SnapshotSection `json:"sections" yaml:"sections"`
	AIDraft  string            `json:"aiDraft" yaml:"ai_draft"`
	Text     string            `json:"text" yaml:"text"`
}

// UnmarshalJSON normalizes whatever was stored, so legacy and partial
// documents decode into the canonical form.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	*s = NormalizeJSON(data)
	return nil
}

// EmptySnapshot returns the canonical empty snapshot
func EmptySnapshot() Snapshot {
	sections := make([]SnapshotSection, 0, len(SectionDefs))
	for _, def := range SectionDefs {
		sections = append(sections, SnapshotSection{ID: def.ID})
	}
	return Snapshot{Sections: sections}
}

// Section returns the content of section id
func (s Snapshot) Section(id string) (string, bool) {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec.Content, true
		}
	}
	return "", false
}

// Filled counts the sections with non-blank content
func (s Snapshot) Filled() int {
	n := 0
	for _, sec := range s.Sections {
		if !isBlank(sec.Content) {
			n++
		}
	}
	return n
}

// Reorder moves the section at index from to index to and finalizes the
// result. Out-of-range indices leave the snapshot unchanged.
func Reorder(s Snapshot, from, to int) Snapshot {
	s = Finalize(s)
	n := len(s.Sections)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return s
	}

	sections := make([]SnapshotSection, 0, n)
	sections = append(sections, s.Sections[:from]...)
	sections = append(sections, s.Sections[from+1:]...)
	moved := s.Sections[from]
	sections = append(sections[:to], append([]SnapshotSection{moved}, sections[to:]...)...)

	s.Sections = sections
	return Finalize(s)
}

// SetSection replaces the content of a canonical section and finalizes the result
func SetSection(s Snapshot, id, content string) Snapshot {
	s = Finalize(s)
	if !IsCanonicalSection(id) {
		return s
	}
	sections := make([]SnapshotSection, len(s.Sections))
	copy(sections, s.Sections)
	for i := range sections {
		if sections[i].ID == id {
			sections[i].Content = content
		}
	}
	s.Sections = sections
	return Finalize(s)
}
