package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/studio-session/internal"
)

// MarkdownExporter exports archive entries as a readable brief
type MarkdownExporter struct{}

// Export writes the entry header, brand, topic, snapshot, article and social posts
func (e *MarkdownExporter) Export(entry *internal.ArchiveEntry, w io.Writer) error {
	data := entry.Data

	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(entry.Title))
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", entry.SessionID)
	if !entry.StartedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", entry.StartedAt.UTC().Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Saved:** %s\n\n", entry.SavedAt.UTC().Format(time.RFC3339))

	if len(data.Topics) > 0 && data.Topics[0].Context != "" {
		_, _ = fmt.Fprintf(w, "**Context:** %s\n\n", escapeMarkdown(data.Topics[0].Context))
	}

	writeBrand(w, data.Brand)
	if len(data.Preferences) > 0 {
		_, _ = fmt.Fprintf(w, "**Channels:** %s\n\n", strings.Join(data.Preferences, ", "))
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Snapshot\n\n")

	filled := 0
	for _, section := range data.Snapshot.Sections {
		if strings.TrimSpace(section.Content) == "" {
			continue
		}
		filled++
		_, _ = fmt.Fprintf(w, "### %s\n\n%s\n\n", internal.SectionTitle(section.ID), escapeMarkdown(section.Content))
	}
	if filled == 0 {
		_, _ = fmt.Fprintf(w, "_No snapshot sections yet._\n\n")
	}

	if data.Article.Title != "" {
		_, _ = fmt.Fprintf(w, "## Article\n\n**%s** (%s)\n\n", escapeMarkdown(data.Article.Title), orDash(data.Article.Status))
	}

	if len(data.Social.Posts) > 0 {
		_, _ = fmt.Fprintf(w, "## Social\n\n")
		for _, post := range data.Social.Posts {
			_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", post.Channel, escapeMarkdown(post.Content))
		}
	}

	if data.Podcast.Script != "" {
		_, _ = fmt.Fprintf(w, "## Podcast\n\n%s\n\n", escapeMarkdown(data.Podcast.Script))
	}

	return nil
}

func writeBrand(w io.Writer, b internal.BrandProfile) {
	fields := []struct{ label, value string }{
		{"Archetype", b.Archetype},
		{"Tone", b.Tone},
		{"Audience", b.Audience},
		{"Values", b.Values},
		{"Phrases", b.Phrases},
		{"Style", b.Style},
	}
	wrote := false
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, "- **%s:** %s\n", f.label, escapeMarkdown(f.value))
		wrote = true
	}
	if wrote {
		_, _ = fmt.Fprintln(w)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// escapeMarkdown escapes markdown emphasis outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
