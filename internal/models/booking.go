package models

import "time"

const (
	BookingTypeOnline = "Online"
	BookingTypeWalkIn = "WalkIn"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CourtID uint   `gorm:"index:idx_bookings_court_time,priority:1;not null" json:"courtId"`
	Court   *Court `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"court,omitempty"`

	// Nil for walk-in customers without an account.
	CustomerID *uint `gorm:"index" json:"customerId"`
	Customer   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`

	WalkInName  string `gorm:"size:120" json:"walkInCustomerName,omitempty"`
	WalkInPhone string `gorm:"size:20" json:"walkInCustomerPhone,omitempty"`
	BookingType string `gorm:"size:10;default:'Online'" json:"bookingType"`
	CreatedBy   uint   `json:"createdBy"`

	StartTime time.Time `gorm:"index:idx_bookings_court_time,priority:2;not null" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`

	// Snapshot at commit time, never recomputed.
	TotalPrice float64 `gorm:"not null" json:"totalPrice"`

	Status          string     `gorm:"size:20;index;default:'Pending'" json:"status"`
	Reason          string     `gorm:"size:500" json:"reason,omitempty"`
	StatusChangedAt *time.Time `json:"statusChangedAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) IsWalkIn() bool {
	return b.BookingType == BookingTypeWalkIn
}

func (b *Booking) CustomerName() string {
	if b.WalkInName != "" {
		return b.WalkInName
	}
	if b.Customer != nil {
		return b.Customer.FullName
	}
	return ""
}

func (b *Booking) CustomerPhone() string {
	if b.WalkInPhone != "" {
		return b.WalkInPhone
	}
	if b.Customer != nil {
		return b.Customer.PhoneNumber
	}
	return ""
}

// PaymentRecord marks a provider payment as processed.
type PaymentRecord struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	ProviderPaymentID string  `gorm:"size:64;uniqueIndex;not null" json:"providerPaymentId"`
	BookingID         uint    `gorm:"index;not null" json:"bookingId"`
	Amount            float64 `json:"amount"`
	Status            string  `gorm:"size:20" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
}
