package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Complex is a sports facility holding one or more courts.
type Complex struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OwnerID uint  `gorm:"index;not null" json:"ownerId"`
	Owner   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"owner,omitempty"`

	Name        string `gorm:"size:150;not null" json:"name"`
	Address     string `gorm:"size:255" json:"address"`
	City        string `gorm:"size:100;index" json:"city"`
	PhoneNumber string `gorm:"size:20" json:"phoneNumber"`
	SportType   string `gorm:"size:50;index" json:"sportType"`
	Description string `gorm:"type:text" json:"description"`

	// "HH:MM", day independent
	OpenTime  string `gorm:"size:5;not null" json:"openTime"`
	CloseTime string `gorm:"size:5;not null" json:"closeTime"`
	Timezone  string `gorm:"size:64" json:"timezone"`

	BankCode      string `gorm:"size:20" json:"bankCode"`
	AccountNumber string `gorm:"size:40" json:"accountNumber"`
	AccountName   string `gorm:"size:120" json:"accountName"`

	Amenities datatypes.JSONSlice[string] `json:"amenities"`

	Status       string  `gorm:"size:20;default:'Active'" json:"status"`
	Rating       float64 `gorm:"default:0" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"totalReviews"`

	Courts  []Court        `gorm:"foreignKey:ComplexID" json:"courts,omitempty"`
	Images  []ComplexImage `gorm:"foreignKey:ComplexID" json:"images,omitempty"`
	Reviews []Review       `gorm:"foreignKey:ComplexID" json:"reviews,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Complex) TableName() string {
	return "court_complexes"
}

func (c *Complex) IsActive() bool {
	return c.Status == "" || c.Status == StatusActive
}

func (c *Complex) HasBankInfo() bool {
	return c.BankCode != "" && c.AccountNumber != ""
}

type ComplexImage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ComplexID  uint   `gorm:"index;not null" json:"complexId"`
	URL        string `gorm:"size:500;not null" json:"url"`
	StorageKey string `gorm:"size:255" json:"-"`
	IsMain     bool   `gorm:"default:false" json:"isMain"`
	Position   int    `gorm:"default:0" json:"position"`

	CreatedAt time.Time `json:"createdAt"`
}
