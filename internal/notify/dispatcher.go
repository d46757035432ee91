package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/shadowbot/internal/snapshot"
)

// Callback data carried by the notification keyboard.
const (
	CallbackEmpty = "empty"
	CallbackClose = "close"
)

// Outcome is the result of one notification attempt. Err is nil on success.
type Outcome struct {
	Route snapshot.Route
	Err   error
}

// OK reports whether the notification was delivered.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Dispatcher delivers notifications to the owner. It never retries; the
// caller decides how to log a failed Outcome.
type Dispatcher struct {
	client   Messenger
	ownerID  int64
	composer *Composer
	keyboard bool
}

// NewDispatcher creates a dispatcher sending to ownerID. With keyboard set,
// every notification carries the sender link and a close button.
func NewDispatcher(client Messenger, ownerID int64, composer *Composer, keyboard bool) *Dispatcher {
	return &Dispatcher{
		client:   client,
		ownerID:  ownerID,
		composer: composer,
		keyboard: keyboard,
	}
}

// NotifyEdited reports an edit of original; edited is the version after the edit.
func (d *Dispatcher) NotifyEdited(ctx context.Context, original, edited *snapshot.Snapshot) Outcome {
	if edited == nil {
		return Outcome{Route: snapshot.RouteUnknown, Err: errors.New("edited message is nil")}
	}
	if !original.Attributable() {
		return Outcome{Route: snapshot.RouteUnknown, Err: fmt.Errorf("edit of message %d has no attributable original", edited.MessageID)}
	}

	err := d.sendText(ctx, d.composer.Edited(original, edited), d.markup(original))
	return Outcome{Route: snapshot.RouteText, Err: err}
}

// deletion is one deleted message being relayed.
type deletion struct {
	original *snapshot.Snapshot
	header   string
	markup   models.ReplyMarkup
}

type deletionSender func(d *Dispatcher, ctx context.Context, del deletion) error

// deletionSenders maps every route of snapshot.Precedence, plus the unknown
// fallback, to the way the original content is resent.
var deletionSenders = map[snapshot.Route]deletionSender{
	snapshot.RouteText: func(d *Dispatcher, ctx context.Context, del deletion) error {
		return d.sendText(ctx, appendExcerpt(del.header+"\n\n💬 *Text:*\n", del.original.Text), del.markup)
	},
	snapshot.RouteCaption: func(d *Dispatcher, ctx context.Context, del deletion) error {
		return d.sendText(ctx, appendExcerpt(del.header+"\n\n💬 *Caption:*\n", del.original.Caption), del.markup)
	},
	snapshot.RoutePhoto: func(d *Dispatcher, ctx context.Context, del deletion) error {
		_, err := d.client.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      d.ownerID,
			Photo:       fileRef(del.original, snapshot.MediaPhoto),
			Caption:     del.header,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: del.markup,
		})
		return err
	},
	snapshot.RouteVideo: func(d *Dispatcher, ctx context.Context, del deletion) error {
		_, err := d.client.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:      d.ownerID,
			Video:       fileRef(del.original, snapshot.MediaVideo),
			Caption:     del.header,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: del.markup,
		})
		return err
	},
	snapshot.RouteVoice: func(d *Dispatcher, ctx context.Context, del deletion) error {
		// Voice is resent as audio with a caption.
		_, err := d.client.SendAudio(ctx, &bot.SendAudioParams{
			ChatID:      d.ownerID,
			Audio:       fileRef(del.original, snapshot.MediaVoice),
			Caption:     del.header + "\n🎙 Voice message",
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: del.markup,
		})
		return err
	},
	snapshot.RouteVideoNote: func(d *Dispatcher, ctx context.Context, del deletion) error {
		// Video notes cannot carry a caption: the notice follows as text.
		if _, err := d.client.SendVideoNote(ctx, &bot.SendVideoNoteParams{
			ChatID:    d.ownerID,
			VideoNote: fileRef(del.original, snapshot.MediaVideoNote),
		}); err != nil {
			return err
		}
		return d.sendText(ctx, del.header+"\n📹 Video note", del.markup)
	},
	snapshot.RouteAnimation: func(d *Dispatcher, ctx context.Context, del deletion) error {
		_, err := d.client.SendAnimation(ctx, &bot.SendAnimationParams{
			ChatID:      d.ownerID,
			Animation:   fileRef(del.original, snapshot.MediaAnimation),
			Caption:     del.header,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: del.markup,
		})
		return err
	},
	snapshot.RouteSticker: func(d *Dispatcher, ctx context.Context, del deletion) error {
		// Stickers cannot carry a caption either.
		if _, err := d.client.SendSticker(ctx, &bot.SendStickerParams{
			ChatID:  d.ownerID,
			Sticker: fileRef(del.original, snapshot.MediaSticker),
		}); err != nil {
			return err
		}
		return d.sendText(ctx, del.header+"\n🃏 Sticker", del.markup)
	},
	snapshot.RouteDocument: func(d *Dispatcher, ctx context.Context, del deletion) error {
		_, err := d.client.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:      d.ownerID,
			Document:    fileRef(del.original, snapshot.MediaDocument),
			Caption:     del.header,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: del.markup,
		})
		return err
	},
	snapshot.RouteUnknown: func(d *Dispatcher, ctx context.Context, del deletion) error {
		return d.sendText(ctx, del.header+"\n\n📁 *Unknown media type*", del.markup)
	},
}

// NotifyDeleted relays a deleted message, resending its media when it had any.
// chat is the conversation reported by the deletion event.
func (d *Dispatcher) NotifyDeleted(ctx context.Context, original *snapshot.Snapshot, chat snapshot.Chat) Outcome {
	if !original.Attributable() {
		return Outcome{Route: snapshot.RouteUnknown, Err: fmt.Errorf("deleted message in chat %d has no attributable sender", chat.ID)}
	}

	route := original.Route()
	send, ok := deletionSenders[route]
	if !ok {
		route = snapshot.RouteUnknown
		send = deletionSenders[route]
	}

	del := deletion{
		original: original,
		header:   d.composer.Deleted(original, chat, d.composer.Now()),
		markup:   d.markup(original),
	}
	if err := send(d, ctx, del); err != nil {
		return Outcome{Route: route, Err: fmt.Errorf("failed to relay %s of message %d: %w", route, original.MessageID, err)}
	}
	return Outcome{Route: route}
}

func (d *Dispatcher) sendText(ctx context.Context, text string, markup models.ReplyMarkup) error {
	_, err := d.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      d.ownerID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	return err
}

// markup returns the notification keyboard, or nil when disabled.
func (d *Dispatcher) markup(original *snapshot.Snapshot) models.ReplyMarkup {
	if !d.keyboard || original.From == nil {
		return nil
	}
	return Keyboard(DisplayName(original.From), original.From.ID)
}

// Keyboard builds the inline keyboard attached to notifications: the sender
// label, a link to the sender's profile and a button closing the notice.
func Keyboard(label string, userID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: label, CallbackData: CallbackEmpty},
			{Text: "Sender 👤", URL: "tg://user?id=" + strconv.FormatInt(userID, 10)},
			{Text: "Close ❌", CallbackData: CallbackClose},
		}},
	}
}

func fileRef(s *snapshot.Snapshot, kind snapshot.MediaKind) models.InputFile {
	return &models.InputFileString{Data: s.FileID(kind)}
}
