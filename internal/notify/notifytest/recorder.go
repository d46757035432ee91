// Package notifytest provides a recording notify.Messenger for tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Call is one recorded client call.
type Call struct {
	Method          string
	ChatID          any
	Text            string
	Caption         string
	FileID          string
	ParseMode       models.ParseMode
	ReplyMarkup     models.ReplyMarkup
	MessageID       int
	CallbackQueryID string
}

// Recorder records every call and fails those for which Fail returns an error.
type Recorder struct {
	// Fail decides the error returned for a call; nil means every call succeeds.
	Fail func(call Call) error

	mu     sync.Mutex
	calls  []Call
	nextID int
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Methods returns the method names of the recorded calls in order.
func (r *Recorder) Methods() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

func (r *Recorder) record(call Call) (*models.Message, error) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.nextID++
	id := r.nextID
	r.mu.Unlock()

	if r.Fail != nil {
		if err := r.Fail(call); err != nil {
			return nil, err
		}
	}
	return &models.Message{ID: id}, nil
}

func fileID(f models.InputFile) string {
	if s, ok := f.(*models.InputFileString); ok {
		return s.Data
	}
	return ""
}

// SendMessage implements notify.Messenger.
func (r *Recorder) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	return r.record(Call{Method: "SendMessage", ChatID: p.ChatID, Text: p.Text, ParseMode: p.ParseMode, ReplyMarkup: p.ReplyMarkup})
}

// SendPhoto implements notify.Messenger.
func (r *Recorder) SendPhoto(_ context.Context, p *bot.SendPhotoParams) (*models.Message, error) {
	return r.record(Call{Method: "SendPhoto", ChatID: p.ChatID, Caption: p.Caption, FileID: fileID(p.Photo), ParseMode: p.ParseMode, ReplyMarkup: p.ReplyMarkup})
}

// SendVideo implements notify.Messenger.
func (r *Recorder) SendVideo(_ context.Context, p *bot.SendVideoParams) (*models.Message, error) {
	return r.record(Call{Method: "SendVideo", ChatID: p.ChatID, Caption: p.Caption, FileID: fileID(p.Video), ParseMode: p.ParseMode, ReplyMarkup: p.ReplyMarkup})
}

// SendAudio implements notify.Messenger.
func (r *Recorder) SendAudio(_ context.Context, p *bot.SendAudioParams) (*models.Message, error) {
	return r.record(Call{Method: "SendAudio", ChatID: p.ChatID, Caption: p.Caption, FileID: fileID(p.Audio), ParseMode: p.ParseMode, ReplyMarkup: p.ReplyMarkup})
}

// SendVideoNote implements notify.Messenger.
func (r *Recorder) SendVideoNote(_ context.Context, p *bot.SendVideoNoteParams) (*models.Message, error) {
	return r.record(Call{Method: "SendVideoNote", ChatID: p.ChatID, FileID: fileID(p.VideoNote), ReplyMarkup: p.ReplyMarkup})
}

// SendAnimation implements notify.Messenger.
func (r *Recorder) SendAnimation(_ context.Context, p *bot.SendAnimationParams) (*models.Message, error) {
	return r.record(Call{Method: "SendAnimation", ChatID: p.ChatID, Caption: p.Caption, FileID: fileID(p.Animation), ParseMode: p.ParseMode, ReplyMarkup: p.ReplyMarkup})
}

// SendSticker implements notify.Messenger.
func (r *Recorder) SendSticker(_ context.Context, p *bot.SendStickerParams) (*models.Message, error) {
	return r.record(Call{Method: "SendSticker", ChatID: p.ChatID, FileID: fileID(p.Sticker), ReplyMarkup: p.ReplyMarkup})
}

// SendDocument implements notify.Messenger.
func (r *Recorder) SendDocument(_ context.Context, p *bot.SendDocumentParams) (*models.Message, error) {
	return r.record(Call{Method: "SendDocument", ChatID: p.ChatID, Caption: p.Caption, FileID: fileID(p.Document), ParseMode: p.ParseMode, ReplyMarkup: p.ReplyMarkup})
}

// DeleteMessage implements notify.Messenger.
func (r *Recorder) DeleteMessage(_ context.Context, p *bot.DeleteMessageParams) (bool, error) {
	if _, err := r.record(Call{Method: "DeleteMessage", ChatID: p.ChatID, MessageID: p.MessageID}); err != nil {
		return false, err
	}
	return true, nil
}

// AnswerCallbackQuery implements notify.Messenger.
func (r *Recorder) AnswerCallbackQuery(_ context.Context, p *bot.AnswerCallbackQueryParams) (bool, error) {
	if _, err := r.record(Call{Method: "AnswerCallbackQuery", CallbackQueryID: p.CallbackQueryID, Text: p.Text}); err != nil {
		return false, err
	}
	return true, nil
}
