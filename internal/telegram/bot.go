// Package telegram is the chat transport: it long-polls the Telegram Bot
// API, maps commands and text turns onto the dialog engine, and delivers
// exactly one reply per processed turn.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// turnTimeout bounds one turn end to end, including all backend calls.
const turnTimeout = 30 * time.Second

// Dialog is the engine surface the transport drives.
type Dialog interface {
	HandleMessage(ctx context.Context, platformID, text string) string
	HandleStart(ctx context.Context, platformID string) string
	HandleMenu(ctx context.Context, platformID string) string
}

type Bot struct {
	api         *tgbotapi.BotAPI
	dialog      Dialog
	pollTimeout time.Duration
}

func NewBot(token string, dialog Dialog, pollTimeout time.Duration) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Bot{
		api:         api,
		dialog:      dialog,
		pollTimeout: pollTimeout,
	}, nil
}

// Run polls for updates until the context is cancelled. Turns from
// different members are processed concurrently; all conversation state
// lives in the backend, so the transport holds nothing across turns.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.pollTimeout / time.Second)

	updates := b.api.GetUpdatesChan(u)
	log.Printf("telegram: bot @%s polling for updates", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
				continue
			}
			go b.handle(ctx, update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("telegram: panic handling update from %d: %v", msg.From.ID, r)
		}
	}()

	turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	reply := replyFor(turnCtx, b.dialog, msg)
	if reply == "" {
		return
	}
	b.send(msg.Chat.ID, reply)
}

// replyFor routes one inbound message. /start and /menu are transport
// shortcuts; unknown commands are dropped without a reply; everything else
// goes through the state machine.
func replyFor(ctx context.Context, d Dialog, msg *tgbotapi.Message) string {
	platformID := strconv.FormatInt(msg.From.ID, 10)
	switch msg.Command() {
	case "start":
		return d.HandleStart(ctx, platformID)
	case "menu":
		return d.HandleMenu(ctx, platformID)
	case "":
		return d.HandleMessage(ctx, platformID, msg.Text)
	default:
		return ""
	}
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("telegram: send to chat %d failed: %v", chatID, err)
	}
}
