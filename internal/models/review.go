package models

import "time"

type Review struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	ComplexID  uint     `gorm:"uniqueIndex:idx_reviews_complex_customer;not null" json:"complexId"`
	CustomerID uint     `gorm:"uniqueIndex:idx_reviews_complex_customer;not null" json:"customerId"`
	Customer   *User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"customer,omitempty"`
	Complex    *Complex `gorm:"foreignKey:ComplexID;constraint:OnDelete:CASCADE;" json:"complex,omitempty"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
