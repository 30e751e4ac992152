package bot

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	f, err := StartTelegramBot("", []int64{1}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != nil {
		t.Fatal("expected nil forwarder without token")
	}
}

func TestRegisterHandlersEndpoints(t *testing.T) {
	reg := &fakeRegistrar{handlers: map[string]tele.HandlerFunc{}}
	registerHandlers(reg, NewAlertForwarder(nil, nil, nil, zerolog.Nop()))

	for _, ep := range []string{"/ping", "/alerts"} {
		if reg.handlers[ep] == nil {
			t.Fatalf("expected handler for %s", ep)
		}
	}
}

func TestAlertReplyModes(t *testing.T) {
	f := NewAlertForwarder(nil, nil, []int64{5}, zerolog.Nop())

	if got := alertReply(f, 9, "status"); got != "Alerts status: OFF" {
		t.Fatalf("unexpected status reply %q", got)
	}
	if got := alertReply(f, 9, "on"); !strings.Contains(got, "enabled") {
		t.Fatalf("unexpected on reply %q", got)
	}
	if got := alertReply(f, 9, "on"); !strings.Contains(got, "already") {
		t.Fatalf("expected already-enabled reply, got %q", got)
	}
	if got := alertReply(f, 9, "status"); got != "Alerts status: ON (2 chats)" {
		t.Fatalf("unexpected status reply %q", got)
	}
	if got := alertReply(f, 9, "off"); !strings.Contains(got, "disabled") {
		t.Fatalf("unexpected off reply %q", got)
	}
}

type fakeRegistrar struct {
	handlers map[string]tele.HandlerFunc
}

func (f *fakeRegistrar) Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc) {
	f.handlers[endpoint.(string)] = h
}
