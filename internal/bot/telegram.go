package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// StartTelegramBot connects to Telegram and returns a forwarder seeded with
// chatIDs. Chats can opt in or out with /alerts. An empty token returns nil.
func StartTelegramBot(token string, chatIDs []int64, dedupe Deduper, logger zerolog.Logger) (*AlertForwarder, error) {
	if token == "" {
		logger.Info().Msg("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create Telegram bot: %w", err)
	}
	alerts := NewAlertForwarder(b, dedupe, chatIDs, logger)
	registerHandlers(b, alerts)

	logger.Info().Int("chats", len(chatIDs)).Msg("Telegram bot started")
	go b.Start()
	return alerts, nil
}

type handlerRegistrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

func registerHandlers(b handlerRegistrar, alerts *AlertForwarder) {
	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/alerts", func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return c.Send("Unable to detect chat")
		}
		mode, err := parseAlertMode(c.Args())
		if err != nil {
			return c.Send("Usage: /alerts on | /alerts off | /alerts status")
		}
		return c.Send(alertReply(alerts, chat.ID, mode))
	})
}

func alertReply(alerts *AlertForwarder, chatID int64, mode string) string {
	switch mode {
	case "on":
		if alerts.Subscribe(chatID) {
			return "Desk alerts enabled for this chat."
		}
		return "Desk alerts are already enabled for this chat."
	case "off":
		if alerts.Unsubscribe(chatID) {
			return "Desk alerts disabled for this chat."
		}
		return "Desk alerts are already disabled for this chat."
	}
	if alerts.IsSubscribed(chatID) {
		return fmt.Sprintf("Alerts status: ON (%d chats)", alerts.SubscriberCount())
	}
	return "Alerts status: OFF"
}
