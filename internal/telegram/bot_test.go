package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeDialog struct {
	lastMethod string
	lastID     string
	lastText   string
}

func (f *fakeDialog) HandleMessage(_ context.Context, platformID, text string) string {
	f.lastMethod = "message"
	f.lastID = platformID
	f.lastText = text
	return "message-reply"
}

func (f *fakeDialog) HandleStart(_ context.Context, platformID string) string {
	f.lastMethod = "start"
	f.lastID = platformID
	return "start-reply"
}

func (f *fakeDialog) HandleMenu(_ context.Context, platformID string) string {
	f.lastMethod = "menu"
	f.lastID = platformID
	return "menu-reply"
}

func message(text string, command bool) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: 424242},
		Chat: &tgbotapi.Chat{ID: 1},
	}
	if command {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(firstWord(text))}}
	}
	return msg
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}

func TestReplyForRoutesStart(t *testing.T) {
	d := &fakeDialog{}
	got := replyFor(context.Background(), d, message("/start", true))
	if got != "start-reply" || d.lastMethod != "start" {
		t.Fatalf("got %q via %q, want start routing", got, d.lastMethod)
	}
	if d.lastID != "424242" {
		t.Fatalf("platform id = %q, want Telegram user id", d.lastID)
	}
}

func TestReplyForRoutesMenu(t *testing.T) {
	d := &fakeDialog{}
	got := replyFor(context.Background(), d, message("/menu", true))
	if got != "menu-reply" || d.lastMethod != "menu" {
		t.Fatalf("got %q via %q, want menu routing", got, d.lastMethod)
	}
}

func TestReplyForRoutesPlainText(t *testing.T) {
	d := &fakeDialog{}
	got := replyFor(context.Background(), d, message("500", false))
	if got != "message-reply" || d.lastMethod != "message" {
		t.Fatalf("got %q via %q, want message routing", got, d.lastMethod)
	}
	if d.lastText != "500" {
		t.Fatalf("text = %q, want raw body", d.lastText)
	}
}

func TestReplyForDropsUnknownCommands(t *testing.T) {
	d := &fakeDialog{}
	got := replyFor(context.Background(), d, message("/help", true))
	if got != "" || d.lastMethod != "" {
		t.Fatalf("unknown commands should be dropped, got %q via %q", got, d.lastMethod)
	}
}
