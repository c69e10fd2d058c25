package notify

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/BruksfildServices01/court-scheduler/internal/events"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func customerEvent(typ string) events.Event {
	ev := sampleEvent(typ)
	customer := uint(7)
	ev.CustomerID = &customer
	return ev
}

func newTestEmail(outbox *[]sentMail) *Email {
	e := NewEmail(MailConfig{
		Host:     "smtp.test",
		Port:     "587",
		From:     "bookings@sportsync.test",
		FromName: "SportSync",
	}, func(_ context.Context, id uint) (Recipient, error) {
		if id != 7 {
			return Recipient{}, nil
		}
		return Recipient{Email: "a@example.com", Name: "Nguyen Van A\r\nBcc: x@evil.test"}, nil
	})
	e.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*outbox = append(*outbox, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return e
}

func TestEmail_SendsBookingConfirmation(t *testing.T) {
	var outbox []sentMail
	e := newTestEmail(&outbox)

	if err := e.Handle(context.Background(), customerEvent(events.BookingCreated)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(outbox) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(outbox))
	}

	m := outbox[0]
	if m.addr != "smtp.test:587" || m.from != "bookings@sportsync.test" {
		t.Fatalf("unexpected envelope %+v", m)
	}
	if len(m.to) != 1 || m.to[0] != "a@example.com" {
		t.Fatalf("unexpected recipients %v", m.to)
	}
	for _, want := range []string{
		"Subject: Booking #42 received",
		"multipart/alternative",
		"text/html; charset=utf-8",
		"150,000đ",
		"Hanoi Sports Hub",
	} {
		if !strings.Contains(m.msg, want) {
			t.Errorf("mail missing %q", want)
		}
	}
	if strings.Contains(m.msg, "\r\nBcc:") {
		t.Fatalf("recipient name leaked a header:\n%s", m.msg)
	}
}

func TestEmail_SkipsWalkInsAndCompletions(t *testing.T) {
	var outbox []sentMail
	e := newTestEmail(&outbox)
	ctx := context.Background()

	if err := e.Handle(ctx, sampleEvent(events.BookingConfirmed)); err != nil {
		t.Fatalf("walk-in: %v", err)
	}
	if err := e.Handle(ctx, customerEvent(events.BookingCompleted)); err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(outbox) != 0 {
		t.Fatalf("expected no mail, got %d", len(outbox))
	}
}

func TestEmail_RejectionCarriesReason(t *testing.T) {
	var outbox []sentMail
	e := newTestEmail(&outbox)

	ev := customerEvent(events.BookingRejected)
	ev.Reason = "court under maintenance"
	if err := e.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(outbox) != 1 || !strings.Contains(outbox[0].msg, "Reason: court under maintenance") {
		t.Fatalf("rejection mail should carry the reason: %+v", outbox)
	}
}

func TestMailConfig_Enabled(t *testing.T) {
	if (MailConfig{Host: "smtp.test", Port: "587"}).Enabled() {
		t.Fatalf("no sender address should disable mail")
	}
	if !(MailConfig{Host: "smtp.test", Port: "587", Username: "bot@sportsync.test"}).Enabled() {
		t.Fatalf("username doubles as the sender")
	}
}
