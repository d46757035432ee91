package notify

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/edgard/shadowbot/internal/snapshot"
)

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user *snapshot.User
		want string
	}{
		{name: "username wins", user: &snapshot.User{ID: 1, Username: "alice", FirstName: "Alice"}, want: "@alice"},
		{name: "first name only", user: &snapshot.User{ID: 2, FirstName: "Bob"}, want: "Bob"},
		{name: "first and last", user: &snapshot.User{ID: 3, FirstName: "Bob", LastName: "Marley"}, want: "Bob Marley"},
		{name: "last name only is trimmed", user: &snapshot.User{ID: 4, LastName: "Solo"}, want: "Solo"},
		{name: "no names", user: &snapshot.User{ID: 42}, want: "ID: 42"},
		{name: "nil user", user: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DisplayName(tt.user); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatLabel(t *testing.T) {
	t.Parallel()

	if got := ChatLabel(snapshot.Chat{ID: 5, Title: "Shop"}); got != "Shop" {
		t.Errorf("ChatLabel(titled) = %q", got)
	}
	if got := ChatLabel(snapshot.Chat{ID: -100500}); got != "-100500" {
		t.Errorf("ChatLabel(untitled) = %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	moscow, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	ts := time.Date(2025, 3, 1, 9, 30, 5, 0, time.UTC)

	if got := FormatTime(ts, moscow); got != "12:30:05" {
		t.Errorf("FormatTime(moscow) = %q, want 12:30:05", got)
	}
	if got := FormatTime(ts, nil); got != "09:30:05" {
		t.Errorf("FormatTime(nil loc) = %q, want 09:30:05", got)
	}
	if got := FormatTime(time.Time{}, moscow); got != "unknown" {
		t.Errorf("FormatTime(zero) = %q, want unknown", got)
	}
}

func TestComposerEdited(t *testing.T) {
	t.Parallel()

	c := NewComposer(time.UTC)
	original := &snapshot.Snapshot{
		MessageID: 1,
		From:      &snapshot.User{ID: 1, Username: "al_ice"},
		Chat:      snapshot.Chat{ID: 5, Title: "Shop"},
		Date:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Text:      "price is 10.5!",
	}
	edited := &snapshot.Snapshot{
		MessageID: 1,
		Chat:      snapshot.Chat{ID: 5, Title: "Shop (renamed)"},
		EditDate:  time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC),
		Text:      "price is 12",
	}

	got := c.Edited(original, edited)

	for _, want := range []string{
		"✏️ *Message edited*",
		"👤 *User:* @al\\_ice",
		"🏷 *Chat:* Shop \\(renamed\\)",
		"⏰ *Sent at:* 09:00:00",
		"🕒 *Edited at:* 09:15:00",
		"💬 *Text:*\nprice is 10\\.5\\!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Edited() missing %q in:\n%s", want, got)
		}
	}
}

func TestComposerEditedExcerptFallback(t *testing.T) {
	t.Parallel()

	c := NewComposer(time.UTC)
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }
	from := &snapshot.User{ID: 1, FirstName: "Bob"}

	caption := c.Edited(&snapshot.Snapshot{From: from, Caption: "nice"}, &snapshot.Snapshot{})
	if !strings.Contains(caption, "💬 *Caption:*\nnice") {
		t.Errorf("caption excerpt missing:\n%s", caption)
	}
	if !strings.Contains(caption, "🕒 *Edited at:* 10:00:00") {
		t.Errorf("edit time should fall back to now:\n%s", caption)
	}

	media := c.Edited(&snapshot.Snapshot{From: from, Media: map[snapshot.MediaKind]string{snapshot.MediaPhoto: "p"}}, &snapshot.Snapshot{})
	if !strings.Contains(media, "📁 *Type:* media") {
		t.Errorf("media marker missing:\n%s", media)
	}
}

func TestAppendExcerpt(t *testing.T) {
	t.Parallel()

	const prefix = "💬 *Text:*\n"
	exact := strings.Repeat("a", MaxMessageLength-utf16Len(prefix))

	tests := []struct {
		name          string
		raw           string
		wantTruncated bool
	}{
		{name: "short", raw: "see you."},
		{name: "exactly at limit", raw: exact},
		{name: "one over limit", raw: exact + "a", wantTruncated: true},
		{name: "escaping pushes over limit", raw: strings.Repeat(".", 3000), wantTruncated: true},
		{name: "surrogate pairs", raw: strings.Repeat("😀", 3000), wantTruncated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := appendExcerpt(prefix, tt.raw)
			if n := utf16Len(got); n > MaxMessageLength {
				t.Fatalf("length = %d, want at most %d", n, MaxMessageLength)
			}
			if !strings.HasPrefix(got, prefix) {
				t.Errorf("prefix lost: %q", got[:min(len(got), 40)])
			}
			if truncated := strings.HasSuffix(got, truncationMark); truncated != tt.wantTruncated {
				t.Errorf("truncated = %v, want %v", truncated, tt.wantTruncated)
			}
			if strings.HasSuffix(got, "\\"+truncationMark) {
				t.Error("cut split an escape sequence")
			}
		})
	}

	if got := appendExcerpt(prefix, "see you."); got != prefix+"see you\\." {
		t.Errorf("short excerpt = %q, want escaped text unchanged", got)
	}
}

func TestComposerEditedLongText(t *testing.T) {
	t.Parallel()

	c := NewComposer(time.UTC)
	original := &snapshot.Snapshot{From: &snapshot.User{ID: 1, Username: "alice"}, Text: strings.Repeat("!", 4000)}

	got := c.Edited(original, &snapshot.Snapshot{EditDate: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)})
	if n := utf16Len(got); n > MaxMessageLength {
		t.Errorf("edited notice length = %d, want at most %d", n, MaxMessageLength)
	}
	if !strings.HasSuffix(got, truncationMark) {
		t.Error("long excerpt not marked as truncated")
	}
}
