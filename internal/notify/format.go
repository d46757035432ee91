package notify

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/go-telegram/bot"

	"github.com/edgard/shadowbot/internal/snapshot"
)

// TimeLayout is how send, edit and deletion times appear in notifications.
const TimeLayout = "15:04:05"

// MaxMessageLength is the platform limit on a text message, in UTF-16 code units.
const MaxMessageLength = 4096

// truncationMark ends an excerpt that was cut to fit MaxMessageLength.
const truncationMark = "…"

// utf16Len counts s the way the platform measures message length.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// appendExcerpt escapes raw and appends it to prefix. The excerpt is cut at a
// rune boundary and marked when the result would exceed MaxMessageLength.
func appendExcerpt(prefix, raw string) string {
	escaped := bot.EscapeMarkdown(raw)
	budget := MaxMessageLength - utf16Len(prefix)
	if utf16Len(escaped) <= budget {
		return prefix + escaped
	}

	budget -= utf16Len(truncationMark)
	var sb strings.Builder
	sb.WriteString(prefix)
	used := 0
	for _, r := range raw {
		part := bot.EscapeMarkdown(string(r))
		n := utf16Len(part)
		if used+n > budget {
			break
		}
		sb.WriteString(part)
		used += n
	}
	sb.WriteString(truncationMark)
	return sb.String()
}

// DisplayName names a sender: "@username", else "first last", else "ID: <id>".
func DisplayName(u *snapshot.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return "ID: " + strconv.FormatInt(u.ID, 10)
}

// ChatLabel names a conversation by title, falling back to its id.
func ChatLabel(chat snapshot.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return strconv.FormatInt(chat.ID, 10)
}

// FormatTime renders t in loc as HH:MM:SS. The zero time renders as "unknown".
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "unknown"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeLayout)
}

// Composer renders notification text in MarkdownV2. All message-derived
// values are escaped; only the fixed labels carry markup.
type Composer struct {
	loc *time.Location
	now func() time.Time
}

// NewComposer creates a composer rendering times in loc.
func NewComposer(loc *time.Location) *Composer {
	if loc == nil {
		loc = time.UTC
	}
	return &Composer{loc: loc, now: time.Now}
}

// Now returns the composer's current time.
func (c *Composer) Now() time.Time {
	return c.now()
}

// preamble is the identity/time block shared by edit and deletion notices.
func (c *Composer) preamble(title string, original *snapshot.Snapshot, chat snapshot.Chat, changeLabel string, changedAt time.Time) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	line(&sb, "👤", "User", DisplayName(original.From))
	line(&sb, "🏷", "Chat", ChatLabel(chat))
	line(&sb, "⏰", "Sent at", FormatTime(original.Date, c.loc))
	sb.WriteString("🕒 *" + changeLabel + ":* " + bot.EscapeMarkdown(FormatTime(changedAt, c.loc)))
	return sb.String()
}

func line(sb *strings.Builder, icon, label, value string) {
	sb.WriteString(icon + " *" + label + ":* " + bot.EscapeMarkdown(value) + "\n")
}

// Edited renders the notice for an edited message. The edit time comes from
// the edited version and falls back to the current time.
func (c *Composer) Edited(original, edited *snapshot.Snapshot) string {
	editedAt := edited.EditDate
	if editedAt.IsZero() {
		editedAt = c.now()
	}

	text := c.preamble("✏️ *Message edited*", original, edited.Chat, "Edited at", editedAt)
	switch {
	case original.Text != "":
		text = appendExcerpt(text+"\n\n💬 *Text:*\n", original.Text)
	case original.Caption != "":
		text = appendExcerpt(text+"\n\n💬 *Caption:*\n", original.Caption)
	default:
		text += "\n\n📁 *Type:* media"
	}
	return text
}

// Deleted renders the notice header for a deleted message; the dispatcher
// appends the route-specific part.
func (c *Composer) Deleted(original *snapshot.Snapshot, chat snapshot.Chat, deletedAt time.Time) string {
	return c.preamble("🗑 *Message deleted*", original, chat, "Deleted at", deletedAt)
}
