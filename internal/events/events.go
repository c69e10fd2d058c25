package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

// Routing keys published on the booking exchange.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingRejected  = "booking.rejected"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
	BookingExpired   = "booking.expired"
)

func ForStatus(status string) string {
	switch status {
	case "Confirmed":
		return BookingConfirmed
	case "Rejected":
		return BookingRejected
	case "Cancelled":
		return BookingCancelled
	case "Completed":
		return BookingCompleted
	}
	return ""
}

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`

	BookingID   uint      `json:"bookingId"`
	CourtID     uint      `json:"courtId"`
	CourtName   string    `json:"courtName"`
	ComplexID   uint      `json:"complexId"`
	ComplexName string    `json:"complexName"`
	OwnerID     uint      `json:"ownerId"`
	CustomerID  *uint     `json:"customerId,omitempty"`
	Customer    string    `json:"customerName"`
	BookingType string    `json:"bookingType"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	TotalPrice  float64   `json:"totalPrice"`
	Timezone    string    `json:"timezone"`
}

// FromBooking expects b.Court.Complex to be loaded.
func FromBooking(typ string, b *models.Booking, now time.Time) Event {
	ev := Event{
		ID:          uuid.NewString(),
		Type:        typ,
		OccurredAt:  now,
		BookingID:   b.ID,
		CourtID:     b.CourtID,
		CustomerID:  b.CustomerID,
		Customer:    b.CustomerName(),
		BookingType: b.BookingType,
		Status:      b.Status,
		Reason:      b.Reason,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		TotalPrice:  b.TotalPrice,
	}

	if b.Court != nil {
		ev.CourtName = b.Court.Name
		ev.ComplexID = b.Court.ComplexID
		if cx := b.Court.Complex; cx != nil {
			ev.ComplexName = cx.Name
			ev.OwnerID = cx.OwnerID
			ev.Timezone = cx.Timezone
		}
	}
	return ev
}
