package model

import "time"

// Store is a rateable entity owned by exactly one store-owner user.
// The owner is fixed at creation.
type Store struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:60;not null;index"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Address   string    `json:"address" gorm:"size:400;not null"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
