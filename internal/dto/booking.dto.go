package dto

import (
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/models"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
)

// BookingDTO is the flat booking shape used by listings and detail views.
// Times are in the complex's timezone.
type BookingDTO struct {
	ID            uint       `json:"id"`
	CourtID       uint       `json:"courtId"`
	CourtName     string     `json:"courtName"`
	ComplexID     uint       `json:"complexId"`
	ComplexName   string     `json:"complexName"`
	CustomerID    *uint      `json:"customerId"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	BookingType   string     `json:"bookingType"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	TotalPrice    float64    `json:"totalPrice"`
	Status        string     `json:"status"`
	Reason        string     `json:"reason,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func FromBooking(b *models.Booking, expiresAt *time.Time) BookingDTO {
	out := BookingDTO{
		ID:            b.ID,
		CourtID:       b.CourtID,
		CustomerID:    b.CustomerID,
		CustomerName:  b.CustomerName(),
		CustomerPhone: b.CustomerPhone(),
		BookingType:   b.BookingType,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		Reason:        b.Reason,
		ExpiresAt:     expiresAt,
		CreatedAt:     b.CreatedAt,
	}

	if b.Court != nil {
		out.CourtName = b.Court.Name
		out.ComplexID = b.Court.ComplexID
		if cx := b.Court.Complex; cx != nil {
			out.ComplexName = cx.Name
			loc := timezone.Location(cx.Timezone)
			out.StartTime = b.StartTime.In(loc)
			out.EndTime = b.EndTime.In(loc)
		}
	}
	return out
}
