// Package snapshot defines the cached copy of a business message and the
// precedence table that decides how a snapshot is relayed.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"
)

// MediaKind names an attachment kind carried by a message.
type MediaKind string

// Attachment kinds understood by the relay.
const (
	MediaPhoto     MediaKind = "photo"
	MediaVideo     MediaKind = "video"
	MediaVoice     MediaKind = "voice"
	MediaVideoNote MediaKind = "video_note"
	MediaAnimation MediaKind = "animation"
	MediaSticker   MediaKind = "sticker"
	MediaDocument  MediaKind = "document"
)

// User identifies the sender of a message.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}

// Snapshot is the last observed state of a message. Media maps each attached
// kind to the platform file id, so a relay can resend the file without downloading it.
type Snapshot struct {
	MessageID            int                  `json:"message_id"`
	BusinessConnectionID string               `json:"business_connection_id,omitempty"`
	From                 *User                `json:"from,omitempty"`
	Chat                 Chat                 `json:"chat"`
	Date                 time.Time            `json:"date,omitzero"`
	EditDate             time.Time            `json:"edit_date,omitzero"`
	Text                 string               `json:"text,omitempty"`
	Caption              string               `json:"caption,omitempty"`
	Media                map[MediaKind]string `json:"media,omitempty"`
}

// FromMessage captures a platform message. It returns nil for a nil message.
func FromMessage(msg *models.Message) *Snapshot {
	if msg == nil {
		return nil
	}

	s := &Snapshot{
		MessageID:            msg.ID,
		BusinessConnectionID: msg.BusinessConnectionID,
		Chat:                 Chat{ID: msg.Chat.ID, Title: msg.Chat.Title},
		Date:                 unixTime(int64(msg.Date)),
		EditDate:             unixTime(int64(msg.EditDate)),
		Text:                 msg.Text,
		Caption:              msg.Caption,
	}
	if msg.From != nil {
		s.From = &User{
			ID:        msg.From.ID,
			Username:  msg.From.Username,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
		}
	}

	media := make(map[MediaKind]string)
	if n := len(msg.Photo); n > 0 {
		// Sizes are ordered from smallest to largest.
		media[MediaPhoto] = msg.Photo[n-1].FileID
	}
	if msg.Video != nil {
		media[MediaVideo] = msg.Video.FileID
	}
	if msg.Voice != nil {
		media[MediaVoice] = msg.Voice.FileID
	}
	if msg.VideoNote != nil {
		media[MediaVideoNote] = msg.VideoNote.FileID
	}
	if msg.Animation != nil {
		media[MediaAnimation] = msg.Animation.FileID
	}
	if msg.Sticker != nil {
		media[MediaSticker] = msg.Sticker.FileID
	}
	if msg.Document != nil {
		media[MediaDocument] = msg.Document.FileID
	}
	if len(media) > 0 {
		s.Media = media
	}

	return s
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// FileID returns the file id stored for kind, or "" when the message has no such attachment.
func (s *Snapshot) FileID(kind MediaKind) string {
	return s.Media[kind]
}

// Attributable reports whether the snapshot has a sender to name in a notification.
func (s *Snapshot) Attributable() bool {
	return s != nil && s.From != nil
}

// Marshal serializes the snapshot for the cache.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot %d in chat %d: %w", s.MessageID, s.Chat.ID, err)
	}
	return data, nil
}

// Unmarshal decodes a snapshot previously produced by Marshal.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &s, nil
}
