package snapshot

import (
	"reflect"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
)

func TestFromMessage(t *testing.T) {
	t.Parallel()

	msg := &models.Message{
		ID:                   17,
		BusinessConnectionID: "conn-1",
		From:                 &models.User{ID: 42, Username: "alice", FirstName: "Alice"},
		Chat:                 models.Chat{ID: -100, Title: "Shop"},
		Date:                 1700000000,
		Caption:              "look",
		Photo: []models.PhotoSize{
			{FileID: "small"},
			{FileID: "large"},
		},
	}

	got := FromMessage(msg)

	want := &Snapshot{
		MessageID:            17,
		BusinessConnectionID: "conn-1",
		From:                 &User{ID: 42, Username: "alice", FirstName: "Alice"},
		Chat:                 Chat{ID: -100, Title: "Shop"},
		Date:                 time.Unix(1700000000, 0).UTC(),
		Caption:              "look",
		Media:                map[MediaKind]string{MediaPhoto: "large"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromMessage() = %+v, want %+v", got, want)
	}
	if !got.EditDate.IsZero() {
		t.Errorf("EditDate = %v, want zero for an unedited message", got.EditDate)
	}
	if FromMessage(nil) != nil {
		t.Error("FromMessage(nil) != nil")
	}
}

func TestFromMessageWithoutSender(t *testing.T) {
	t.Parallel()

	s := FromMessage(&models.Message{ID: 1, Chat: models.Chat{ID: 2}, Text: "hi"})
	if s.Attributable() {
		t.Error("Attributable() = true for a message without sender")
	}
	if s.Media != nil {
		t.Errorf("Media = %v, want nil for a text message", s.Media)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	original := FromMessage(&models.Message{
		ID:       5,
		From:     &models.User{ID: 9, FirstName: "Bob"},
		Chat:     models.Chat{ID: 3},
		Date:     1700000000,
		EditDate: 1700000100,
		Text:     "hello *world*",
		Voice:    &models.Voice{FileID: "voice-id"},
	})

	data, err := original.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}

	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("Unmarshal(garbage) error = nil")
	}
}

func TestRoutePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap Snapshot
		want Route
	}{
		{
			name: "text beats photo",
			snap: Snapshot{Text: "t", Media: map[MediaKind]string{MediaPhoto: "p"}},
			want: RouteText,
		},
		{
			name: "caption beats photo",
			snap: Snapshot{Caption: "c", Media: map[MediaKind]string{MediaPhoto: "p"}},
			want: RouteCaption,
		},
		{
			name: "photo beats video",
			snap: Snapshot{Media: map[MediaKind]string{MediaVideo: "v", MediaPhoto: "p"}},
			want: RoutePhoto,
		},
		{
			name: "voice beats video note",
			snap: Snapshot{Media: map[MediaKind]string{MediaVideoNote: "n", MediaVoice: "v"}},
			want: RouteVoice,
		},
		{
			name: "animation beats document",
			snap: Snapshot{Media: map[MediaKind]string{MediaDocument: "d", MediaAnimation: "a"}},
			want: RouteAnimation,
		},
		{
			name: "sticker alone",
			snap: Snapshot{Media: map[MediaKind]string{MediaSticker: "s"}},
			want: RouteSticker,
		},
		{
			name: "document alone",
			snap: Snapshot{Media: map[MediaKind]string{MediaDocument: "d"}},
			want: RouteDocument,
		},
		{
			name: "nothing known",
			snap: Snapshot{},
			want: RouteUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.snap.Route(); got != tt.want {
				t.Errorf("Route() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouteMediaKind(t *testing.T) {
	t.Parallel()

	if kind, ok := RouteVideoNote.MediaKind(); !ok || kind != MediaVideoNote {
		t.Errorf("RouteVideoNote.MediaKind() = %q, %v", kind, ok)
	}
	for _, r := range []Route{RouteText, RouteCaption, RouteUnknown} {
		if _, ok := r.MediaKind(); ok {
			t.Errorf("%q.MediaKind() ok = true, want false", r)
		}
	}
}
