package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true},
		{level: "info", wantDebug: false, wantInfo: true},
		{level: "error", wantDebug: false, wantInfo: false},
		{level: "bogus", wantDebug: false, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			log := newLogger(&bytes.Buffer{}, tt.level, true)
			ctx := context.Background()
			if got := log.Handler().Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := log.Handler().Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestMiddlewareLogsUpdateKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		update   *models.Update
		wantType string
	}{
		{
			name: "business message",
			update: &models.Update{ID: 1, BusinessMessage: &models.Message{
				ID: 10, Chat: models.Chat{ID: 5}, From: &models.User{ID: 7}, Text: "secret",
			}},
			wantType: "business_message",
		},
		{
			name: "edited business message",
			update: &models.Update{ID: 2, EditedBusinessMessage: &models.Message{
				ID: 10, Chat: models.Chat{ID: 5},
			}},
			wantType: "edited_business_message",
		},
		{
			name: "deleted business messages",
			update: &models.Update{ID: 3, DeletedBusinessMessages: &models.BusinessMessagesDeleted{
				Chat: models.Chat{ID: 5}, MessageIDs: []int{1, 2},
			}},
			wantType: "deleted_business_messages",
		},
		{
			name:     "other",
			update:   &models.Update{ID: 4},
			wantType: "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			called := false
			handler := Middleware(newLogger(&buf, "debug", true))(func(context.Context, *bot.Bot, *models.Update) {
				called = true
			})

			handler(context.Background(), nil, tt.update)

			if !called {
				t.Fatal("next handler was not called")
			}
			if strings.Contains(buf.String(), "secret") {
				t.Error("message content leaked into logs")
			}
			line, _, _ := strings.Cut(buf.String(), "\n")
			var record map[string]any
			if err := json.Unmarshal([]byte(line), &record); err != nil {
				t.Fatalf("decode log line %q: %v", line, err)
			}
			if record["update_type"] != tt.wantType {
				t.Errorf("update_type = %v, want %s", record["update_type"], tt.wantType)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString(short) = %q", got)
	}
	if got := truncateString("abcdefghijkl", 8); got != "abcde..." {
		t.Errorf("truncateString(long) = %q, want abcde...", got)
	}
	if got := truncateString("abcdef", 2); got != "..." {
		t.Errorf("truncateString(tiny max) = %q, want ...", got)
	}
}
