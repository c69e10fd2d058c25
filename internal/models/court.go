package models

import "time"

type Court struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ComplexID uint     `gorm:"index;not null" json:"complexId"`
	Complex   *Complex `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"complex,omitempty"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Status      string `gorm:"size:20;default:'Active'" json:"status"`

	PricingRules []PricingRule `gorm:"foreignKey:CourtID" json:"pricingRules,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Court) IsActive() bool {
	return c.Status == "" || c.Status == StatusActive
}

// PricingRule is an hourly rate for one weekday (or "All") and a
// [StartTime, EndTime) window of "HH:MM" clock times.
type PricingRule struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CourtID   uint    `gorm:"index;not null" json:"courtId"`
	DayOfWeek string  `gorm:"size:10;not null" json:"dayOfWeek"`
	StartTime string  `gorm:"size:5;not null" json:"startTime"`
	EndTime   string  `gorm:"size:5;not null" json:"endTime"`
	Price     float64 `gorm:"not null" json:"price"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
