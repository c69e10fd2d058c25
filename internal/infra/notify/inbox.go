package notify

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

type NotificationStore interface {
	CreateNotifications(ctx context.Context, ns []models.Notification) error
}

type gormNotifications struct {
	db *gorm.DB
}

func NewGormNotifications(db *gorm.DB) NotificationStore {
	return gormNotifications{db: db}
}

func (s gormNotifications) CreateNotifications(ctx context.Context, ns []models.Notification) error {
	return s.db.WithContext(ctx).Create(&ns).Error
}

// Inbox stores in-app notifications for the customer and the complex
// owner of each booking event.
type Inbox struct {
	store NotificationStore
}

func NewInbox(store NotificationStore) *Inbox {
	return &Inbox{store: store}
}

func (i *Inbox) Name() string {
	return "inbox"
}

func (i *Inbox) Handle(ctx context.Context, ev events.Event) error {
	ns := Notifications(ev)
	if len(ns) == 0 {
		return nil
	}
	return i.store.CreateNotifications(ctx, ns)
}

// Notifications builds the rows stored for ev.
func Notifications(ev events.Event) []models.Notification {
	var out []models.Notification
	bookingID := ev.BookingID

	if n, ok := CustomerNotice(ev); ok {
		out = append(out, models.Notification{
			UserID:    *ev.CustomerID,
			BookingID: &bookingID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Kind,
			CreatedAt: ev.OccurredAt,
		})
	}
	if n, ok := OwnerNotice(ev); ok {
		out = append(out, models.Notification{
			UserID:    ev.OwnerID,
			BookingID: &bookingID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Kind,
			CreatedAt: ev.OccurredAt,
		})
	}
	return out
}

var _ events.Sink = (*Inbox)(nil)
