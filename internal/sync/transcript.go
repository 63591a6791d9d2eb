package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/danieljhkim/worksync/internal/naming"
	"github.com/danieljhkim/worksync/internal/remote"
)

// TranscriptFileName returns the file a conversation is exported to:
// the sanitized title followed by the first eight characters of its ID.
func TranscriptFileName(c remote.ConversationSummary) string {
	id := c.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s_%s.md", naming.SanitizeOr(c.Name, "chat"), id)
}

// RenderTranscript formats a conversation as Markdown.
func RenderTranscript(c *remote.Conversation) string {
	var b strings.Builder

	title := c.Name
	if title == "" {
		title = "Untitled conversation"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Conversation: %s\n", c.ID)
	if !c.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Created: %s\n", c.CreatedAt.UTC().Format(time.RFC3339))
	}
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "- Updated: %s\n", c.UpdatedAt.UTC().Format(time.RFC3339))
	}

	for _, m := range c.Messages {
		b.WriteString("\n## ")
		b.WriteString(senderLabel(m.Sender))
		if !m.CreatedAt.IsZero() {
			fmt.Fprintf(&b, " (%s)", m.CreatedAt.UTC().Format(time.RFC3339))
		}
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(m.Text, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func senderLabel(sender string) string {
	switch sender {
	case "human":
		return "User"
	case "assistant":
		return "Assistant"
	case "":
		return "Unknown"
	default:
		return strings.ToUpper(sender[:1]) + sender[1:]
	}
}
