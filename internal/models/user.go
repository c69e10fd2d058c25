package models

import "time"

const (
	RoleCustomer = "Customer"
	RoleOwner    = "Owner"
	RoleAdmin    = "Admin"
)

const (
	AccountLocked = 0
	AccountActive = 1
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FullName     string `gorm:"size:120;not null" json:"fullName"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	PhoneNumber  string `gorm:"size:20" json:"phoneNumber"`
	Image        string `gorm:"size:500" json:"image"`
	GoogleID     string `gorm:"size:64;index" json:"-"`

	Role          string `gorm:"size:20;default:'Customer'" json:"role"`
	AccountStatus int    `gorm:"default:1" json:"accountStatus"`

	// Owners receive new-booking alerts here when set.
	TelegramChatID int64 `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

func (u *User) IsLocked() bool {
	return u.AccountStatus == AccountLocked
}
