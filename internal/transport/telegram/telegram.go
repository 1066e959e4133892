package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tahcohcat/coach-pro/internal/logger"
	"github.com/tahcohcat/coach-pro/internal/transport"
)

// Bot is the Telegram long-polling adapter of the transport interface.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler transport.Handler
	logger  *logger.Log
	done    chan struct{}
}

func New(token string, handler transport.Handler) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Bot{
		api:     api,
		handler: handler,
		logger:  logger.New(),
		done:    make(chan struct{}),
	}, nil
}

// Start begins long polling in its own goroutine.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	b.logger.Infof("Telegram bot online as @%s", b.api.Self.UserName)

	go func() {
		for {
			select {
			case <-b.done:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				b.dispatch(update)
			}
		}
	}()
}

// Stop halts long polling.
func (b *Bot) Stop() {
	close(b.done)
	b.api.StopReceivingUpdates()
}

func (b *Bot) dispatch(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		// Telegram omits the originating message for callbacks on
		// messages older than 48h and for inline-mode callbacks.
		if cb.Message == nil {
			b.logger.Warnf("Callback %s arrived without a message, ignoring", cb.ID)
			return
		}
		// Ack so the client stops showing a spinner.
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.logger.WithError(err).Warn("Failed to answer callback query")
		}
		b.handler.OnChoiceSelected(cb.Message.Chat.ID, cb.Data)
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	msg := update.Message
	username, firstName := "", ""
	if msg.From != nil {
		username = msg.From.UserName
		firstName = msg.From.FirstName
	}
	b.handler.OnTextMessage(msg.Chat.ID, username, firstName, msg.Text)
}

func (b *Bot) SendText(chatID int64, text string, markdown bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.WithError(err).Errorf("Failed to send message to %d", chatID)
		return err
	}
	return nil
}

func (b *Bot) SendImage(chatID int64, png []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: png})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(photo); err != nil {
		b.logger.WithError(err).Errorf("Failed to send image to %d", chatID)
		return err
	}
	return nil
}

func (b *Bot) SendChoicePrompt(chatID int64, text string, choices []transport.Choice) error {
	// Two choices per keyboard row, like a compact category picker.
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(choices); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(choices[i].Label, choices[i].ID),
		}
		if i+1 < len(choices) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(choices[i+1].Label, choices[i+1].ID))
		}
		rows = append(rows, row)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.WithError(err).Errorf("Failed to send choice prompt to %d", chatID)
		return err
	}
	return nil
}
