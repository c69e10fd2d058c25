package models

import "time"

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification is an in-app message shown to one user.
type Notification struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"index:idx_notifications_user_read,priority:1;not null" json:"-"`
	BookingID *uint  `gorm:"index" json:"bookingId,omitempty"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Message   string `gorm:"type:text;not null" json:"message"`
	Type      string `gorm:"size:20;default:'info'" json:"type"`
	IsRead    bool   `gorm:"index:idx_notifications_user_read,priority:2;default:false" json:"isRead"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
