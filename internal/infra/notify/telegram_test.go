package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/BruksfildServices01/court-scheduler/internal/events"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func sampleEvent(typ string) events.Event {
	return events.Event{
		Type:        typ,
		BookingID:   42,
		CourtName:   "Court 1",
		ComplexName: "Hanoi Sports Hub",
		OwnerID:     3,
		Customer:    "Nguyen Van A",
		StartTime:   time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 10, 19, 1, 30, 0, 0, time.UTC),
		TotalPrice:  150000,
		Timezone:    "UTC",
	}
}

func TestMessage(t *testing.T) {
	text, ok := Message(sampleEvent(events.BookingCreated))
	if !ok {
		t.Fatalf("created events should notify")
	}
	for _, want := range []string{"#42", "Hanoi Sports Hub", "Court 1", "19/10/2026 00:00-01:30", "Nguyen Van A", "150000"} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q:\n%s", want, text)
		}
	}

	if _, ok := Message(sampleEvent(events.BookingRejected)); ok {
		t.Fatalf("rejections are not sent to owners")
	}
}

func TestTelegram_Handle(t *testing.T) {
	bot := &fakeBot{}
	chats := map[uint]int64{3: 555}
	tg := &Telegram{
		bot: bot,
		chats: func(_ context.Context, ownerID uint) (int64, error) {
			return chats[ownerID], nil
		},
	}

	if err := tg.Handle(t.Context(), sampleEvent(events.BookingCreated)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(bot.sent) != 1 || bot.sent[0].ChatID != 555 {
		t.Fatalf("sent = %+v", bot.sent)
	}

	// owner without a linked chat
	ev := sampleEvent(events.BookingCreated)
	ev.OwnerID = 9
	if err := tg.Handle(t.Context(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("unexpected message")
	}
}

func TestTelegram_LookupError(t *testing.T) {
	tg := &Telegram{
		bot: &fakeBot{},
		chats: func(context.Context, uint) (int64, error) {
			return 0, errors.New("db down")
		},
	}
	if err := tg.Handle(t.Context(), sampleEvent(events.BookingCreated)); err == nil {
		t.Fatalf("expected error")
	}
}
