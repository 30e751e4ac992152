package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"signal-desk/internal/dashboard"
	"signal-desk/internal/domain"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Deduper admits a key once per window.
type Deduper interface {
	First(ctx context.Context, key string) (bool, error)
}

type alertKind string

const (
	alertRisk   alertKind = "risk"
	alertDragon alertKind = "dragon"
)

type alertNote struct {
	kind alertKind
	text string
}

const queueSize = 32

// AlertForwarder relays risk and dragon alerts seen by any dashboard session
// to subscribed Telegram chats. It implements dashboard.Observer; delivery
// happens on the goroutine running Start so the UI loop never waits on the
// Telegram API.
type AlertForwarder struct {
	sender messageSender
	dedupe Deduper
	queue  chan alertNote
	logger zerolog.Logger

	mu          sync.RWMutex
	subscribers map[int64]struct{}
}

func NewAlertForwarder(sender messageSender, dedupe Deduper, chatIDs []int64, logger zerolog.Logger) *AlertForwarder {
	f := &AlertForwarder{
		sender:      sender,
		dedupe:      dedupe,
		queue:       make(chan alertNote, queueSize),
		logger:      logger.With().Str("component", "alert-forwarder").Logger(),
		subscribers: make(map[int64]struct{}),
	}
	for _, id := range chatIDs {
		f.subscribers[id] = struct{}{}
	}
	return f
}

func (f *AlertForwarder) Subscribe(chatID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.subscribers[chatID]; exists {
		return false
	}
	f.subscribers[chatID] = struct{}{}
	return true
}

func (f *AlertForwarder) Unsubscribe(chatID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.subscribers[chatID]; !exists {
		return false
	}
	delete(f.subscribers, chatID)
	return true
}

func (f *AlertForwarder) IsSubscribed(chatID int64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, exists := f.subscribers[chatID]
	return exists
}

func (f *AlertForwarder) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

func (f *AlertForwarder) ActionFinished(dashboard.ActionKind, time.Duration, error) {}

// AlertsRaised queues the signal's alerts. A full queue drops them.
func (f *AlertForwarder) AlertsRaised(sig domain.SignalReady) {
	if f == nil {
		return
	}
	if sig.RiskAlert.Present() {
		f.enqueue(alertNote{kind: alertRisk, text: string(sig.RiskAlert)})
	}
	if sig.DragonAlert.Present() {
		f.enqueue(alertNote{kind: alertDragon, text: string(sig.DragonAlert)})
	}
}

func (f *AlertForwarder) enqueue(n alertNote) {
	select {
	case f.queue <- n:
	default:
		f.logger.Warn().Str("kind", string(n.kind)).Msg("alert queue full, dropping alert")
	}
}

// Start delivers queued alerts. Blocks until ctx is cancelled.
func (f *AlertForwarder) Start(ctx context.Context) {
	f.logger.Info().Int("subscribers", f.SubscriberCount()).Msg("alert forwarder starting")
	for {
		select {
		case <-ctx.Done():
			f.logger.Info().Msg("alert forwarder stopped")
			return
		case n := <-f.queue:
			if err := f.deliver(ctx, n); err != nil {
				f.logger.Error().Err(err).Str("kind", string(n.kind)).Msg("alert delivery failed")
			}
		}
	}
}

func (f *AlertForwarder) deliver(ctx context.Context, n alertNote) error {
	if f.sender == nil {
		return nil
	}
	chatIDs := f.snapshotSubscribers()
	if len(chatIDs) == 0 {
		return nil
	}
	if f.dedupe != nil {
		first, err := f.dedupe.First(ctx, string(n.kind)+":"+n.text)
		if err != nil {
			f.logger.Warn().Err(err).Msg("alert dedupe degraded to local window")
		}
		if !first {
			return nil
		}
	}

	msg := formatAlertMessage(n)
	var failures []string
	for _, chatID := range chatIDs {
		if _, err := f.sender.Send(&tele.Chat{ID: chatID}, msg); err != nil {
			failures = append(failures, fmt.Sprintf("chat %d: %v", chatID, err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("failed sending %d alerts: %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

func (f *AlertForwarder) snapshotSubscribers() []int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	chatIDs := make([]int64, 0, len(f.subscribers))
	for chatID := range f.subscribers {
		chatIDs = append(chatIDs, chatID)
	}
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })
	return chatIDs
}

func parseAlertMode(args []string) (string, error) {
	if len(args) == 0 {
		return "status", nil
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "on":
		return "on", nil
	case "off":
		return "off", nil
	case "status":
		return "status", nil
	default:
		return "", fmt.Errorf("invalid mode")
	}
}

func formatAlertMessage(n alertNote) string {
	switch n.kind {
	case alertDragon:
		return "DRAGON ALERT: " + n.text
	case alertRisk:
		return "CID SCANNER: " + n.text
	}
	return n.text
}
