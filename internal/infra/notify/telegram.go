package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ChatLookup resolves the Telegram chat of a complex owner. Zero means the
// owner has not linked a chat.
type ChatLookup func(ctx context.Context, ownerID uint) (int64, error)

// OwnerChats reads users.telegram_chat_id.
func OwnerChats(db *gorm.DB) ChatLookup {
	return func(ctx context.Context, ownerID uint) (int64, error) {
		var u models.User
		err := db.WithContext(ctx).Select("id", "telegram_chat_id").First(&u, ownerID).Error
		if err != nil {
			return 0, err
		}
		return u.TelegramChatID, nil
	}
}

// Telegram alerts complex owners about new and expired bookings.
type Telegram struct {
	bot   sender
	chats ChatLookup
}

func NewTelegram(token string, chats ChatLookup) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chats: chats}, nil
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) Handle(ctx context.Context, ev events.Event) error {
	text, ok := Message(ev)
	if !ok || ev.OwnerID == 0 {
		return nil
	}

	chatID, err := t.chats(ctx, ev.OwnerID)
	if err != nil {
		return err
	}
	if chatID == 0 {
		return nil
	}

	_, err = t.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Message renders the owner alert for ev. Only some event types notify.
func Message(ev events.Event) (string, bool) {
	var title string
	switch ev.Type {
	case events.BookingCreated:
		title = "🆕 New booking"
	case events.BookingConfirmed:
		title = "✅ Booking paid"
	case events.BookingExpired:
		title = "⌛ Booking expired (unpaid)"
	default:
		return "", false
	}

	loc := timezone.Location(ev.Timezone)
	start := ev.StartTime.In(loc)
	end := ev.EndTime.In(loc)

	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d\n", title, ev.BookingID)
	fmt.Fprintf(&b, "%s · %s\n", ev.ComplexName, ev.CourtName)
	fmt.Fprintf(&b, "📅 %s %s-%s\n", start.Format("02/01/2006"), start.Format("15:04"), end.Format("15:04"))
	if ev.Customer != "" {
		fmt.Fprintf(&b, "👤 %s\n", ev.Customer)
	}
	fmt.Fprintf(&b, "💰 %.0f", ev.TotalPrice)
	return b.String(), true
}

var _ events.Sink = (*Telegram)(nil)
