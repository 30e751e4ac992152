package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"signal-desk/internal/cache"
	"signal-desk/internal/dashboard"
	"signal-desk/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

func TestParseAlertMode(t *testing.T) {
	mode, err := parseAlertMode(nil)
	if err != nil || mode != "status" {
		t.Fatalf("expected default status mode, got mode=%q err=%v", mode, err)
	}

	mode, err = parseAlertMode([]string{"OFF"})
	if err != nil || mode != "off" {
		t.Fatalf("expected off mode, got mode=%q err=%v", mode, err)
	}

	if _, err := parseAlertMode([]string{"nope"}); err == nil {
		t.Fatal("expected invalid mode error")
	}
}

func TestAlertForwarderIsObserver(t *testing.T) {
	var _ dashboard.Observer = (*AlertForwarder)(nil)
}

func TestAlertForwarderQueuesOnlyPresentAlerts(t *testing.T) {
	f := NewAlertForwarder(&fakeSender{}, nil, []int64{10}, zerolog.Nop())

	f.AlertsRaised(domain.SignalReady{Prediction: domain.PredictionBig})
	if len(f.queue) != 0 {
		t.Fatalf("expected empty queue, got %d", len(f.queue))
	}

	f.AlertsRaised(domain.SignalReady{RiskAlert: "trap detected", DragonAlert: "6x BIG"})
	if len(f.queue) != 2 {
		t.Fatalf("expected 2 queued alerts, got %d", len(f.queue))
	}
}

func TestAlertForwarderDropsWhenQueueFull(t *testing.T) {
	var buf bytes.Buffer
	f := NewAlertForwarder(&fakeSender{}, nil, []int64{10}, zerolog.New(&buf))
	for i := 0; i < queueSize+5; i++ {
		f.AlertsRaised(domain.SignalReady{DragonAlert: domain.Alert(fmt.Sprintf("streak %d", i))})
	}
	if len(f.queue) != queueSize {
		t.Fatalf("expected queue capped at %d, got %d", queueSize, len(f.queue))
	}
	if got := strings.Count(buf.String(), "alert queue full"); got != 5 {
		t.Fatalf("expected 5 drops on the injected logger, got %d in %s", got, buf.String())
	}
	if !strings.Contains(buf.String(), `"component":"alert-forwarder"`) || !strings.Contains(buf.String(), `"kind":"dragon"`) {
		t.Fatalf("expected structured fields, got %s", buf.String())
	}
}

func TestAlertForwarderDeliverToSubscribers(t *testing.T) {
	sender := &fakeSender{}
	f := NewAlertForwarder(sender, nil, []int64{20, 10}, zerolog.Nop())

	if err := f.deliver(context.Background(), alertNote{kind: alertDragon, text: "6x BIG"}); err != nil {
		t.Fatalf("unexpected deliver error: %v", err)
	}
	if len(sender.messages[10]) != 1 || len(sender.messages[20]) != 1 {
		t.Fatalf("expected one message per subscriber, got %+v", sender.messages)
	}
	if sender.messages[10][0] != "DRAGON ALERT: 6x BIG" {
		t.Fatalf("unexpected alert body: %s", sender.messages[10][0])
	}
}

func TestAlertForwarderDeliverReportsFailures(t *testing.T) {
	sender := &fakeSender{fail: map[int64]bool{10: true}}
	f := NewAlertForwarder(sender, nil, []int64{10, 20}, zerolog.Nop())

	err := f.deliver(context.Background(), alertNote{kind: alertRisk, text: "trap"})
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if len(sender.messages[20]) != 1 {
		t.Fatal("expected the healthy chat to still receive the alert")
	}
}

func TestAlertForwarderDedupesAcrossForwarders(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sender := &fakeSender{}
	a := NewAlertForwarder(sender, cache.NewDeduper(client, time.Minute), []int64{10}, zerolog.Nop())
	b := NewAlertForwarder(sender, cache.NewDeduper(client, time.Minute), []int64{10}, zerolog.Nop())
	note := alertNote{kind: alertDragon, text: "6x BIG"}

	if err := a.deliver(context.Background(), note); err != nil {
		t.Fatal(err)
	}
	if err := b.deliver(context.Background(), note); err != nil {
		t.Fatal(err)
	}
	if len(sender.messages[10]) != 1 {
		t.Fatalf("expected a single forwarded alert, got %d", len(sender.messages[10]))
	}
}

func TestAlertForwarderNoSubscribersSendsNothing(t *testing.T) {
	sender := &fakeSender{}
	f := NewAlertForwarder(sender, nil, nil, zerolog.Nop())
	if err := f.deliver(context.Background(), alertNote{kind: alertRisk, text: "x"}); err != nil {
		t.Fatal(err)
	}
	if len(sender.messages) != 0 {
		t.Fatalf("expected no messages, got %+v", sender.messages)
	}
}

func TestAlertForwarderStartDrainsQueue(t *testing.T) {
	sender := &fakeSender{}
	f := NewAlertForwarder(sender, nil, []int64{10}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.Start(ctx)
		close(done)
	}()

	f.AlertsRaised(domain.SignalReady{RiskAlert: "trap"})
	deadline := time.After(2 * time.Second)
	for sender.count(10) == 0 {
		select {
		case <-deadline:
			t.Fatal("alert was not delivered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

type fakeSender struct {
	mu       sync.Mutex
	messages map[int64][]string
	fail     map[int64]bool
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = make(map[int64][]string)
	}

	chat, ok := to.(*tele.Chat)
	if !ok {
		return nil, fmt.Errorf("unexpected recipient type %T", to)
	}
	if f.fail[chat.ID] {
		return nil, errors.New("forbidden")
	}
	f.messages[chat.ID] = append(f.messages[chat.ID], fmt.Sprint(what))
	return &tele.Message{}, nil
}

func (f *fakeSender) count(chatID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[chatID])
}
