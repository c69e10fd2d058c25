package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

const mailBoundary = "----=_SPORTSYNC_BOOKING"

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.Port != "" && c.sender() != ""
}

func (c MailConfig) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

type Recipient struct {
	Email string
	Name  string
}

// RecipientLookup resolves a customer's mailbox. An empty Email skips the mail.
type RecipientLookup func(ctx context.Context, userID uint) (Recipient, error)

func CustomerRecipients(db *gorm.DB) RecipientLookup {
	return func(ctx context.Context, userID uint) (Recipient, error) {
		var u models.User
		err := db.WithContext(ctx).Select("id", "email", "full_name").First(&u, userID).Error
		if err != nil {
			return Recipient{}, err
		}
		return Recipient{Email: u.Email, Name: u.FullName}, nil
	}
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Email mails customers about their booking lifecycle.
type Email struct {
	cfg        MailConfig
	recipients RecipientLookup
	send       sendMailFunc
}

func NewEmail(cfg MailConfig, recipients RecipientLookup) *Email {
	return &Email{cfg: cfg, recipients: recipients, send: smtp.SendMail}
}

func (e *Email) Name() string {
	return "email"
}

func (e *Email) Handle(ctx context.Context, ev events.Event) error {
	// completion asks for a review in-app only
	if ev.Type == events.BookingCompleted {
		return nil
	}
	notice, ok := CustomerNotice(ev)
	if !ok {
		return nil
	}

	to, err := e.recipients(ctx, *ev.CustomerID)
	if err != nil {
		return fmt.Errorf("lookup recipient: %w", err)
	}
	if to.Email == "" {
		return nil
	}

	msg, err := e.compose(to, notice, ev)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%s", e.cfg.Host, e.cfg.Port)

	if err := e.send(addr, auth, e.cfg.sender(), []string{to.Email}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	log.Ctx(ctx).Info().Uint("booking_id", ev.BookingID).Str("event", ev.Type).Msg("booking email sent")
	return nil
}

var mailHTML = template.Must(template.New("booking").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="background:#f5f7fb;font-family:Arial,Helvetica,sans-serif;color:#222;">
<div style="max-width:640px;margin:20px auto;background:#fff;border:1px solid #e6eef6;padding:24px;border-radius:8px;">
  <h2>{{.Title}}</h2>
  <p>Hi {{.Name}},</p>
  <p>{{.Message}}</p>
  <table style="border-collapse:collapse;margin-top:12px;">
    <tr><td style="padding:4px 12px 4px 0;color:#667;">Complex</td><td>{{.Complex}}</td></tr>
    <tr><td style="padding:4px 12px 4px 0;color:#667;">Court</td><td>{{.Court}}</td></tr>
    <tr><td style="padding:4px 12px 4px 0;color:#667;">Total</td><td>{{.Total}}</td></tr>
  </table>
</div>
</body>
</html>`))

func (e *Email) compose(to Recipient, n Notice, ev events.Event) ([]byte, error) {
	name := headerSafe(to.Name)
	if name == "" {
		name = "there"
	}

	var html bytes.Buffer
	err := mailHTML.Execute(&html, map[string]string{
		"Title":   n.Title,
		"Name":    name,
		"Message": n.Message,
		"Complex": ev.ComplexName,
		"Court":   ev.CourtName,
		"Total":   FormatVND(ev.TotalPrice),
	})
	if err != nil {
		return nil, fmt.Errorf("render mail: %w", err)
	}

	plain := fmt.Sprintf("Hi %s,\n\n%s\n\nComplex: %s\nCourt: %s\nTotal: %s\n",
		name, n.Message, ev.ComplexName, ev.CourtName, FormatVND(ev.TotalPrice))

	from := e.cfg.sender()
	if e.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", headerSafe(e.cfg.FromName)), from)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", headerSafe(to.Email))
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerSafe(n.Title)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", mailBoundary)

	fmt.Fprintf(&sb, "--%s\r\n", mailBoundary)
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plain + "\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", mailBoundary)
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(html.String() + "\r\n")

	fmt.Fprintf(&sb, "--%s--\r\n", mailBoundary)
	return []byte(sb.String()), nil
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(s))
}

var _ events.Sink = (*Email)(nil)
