package model

import "time"

// Rating links one user to one store with a 1..5 value. The composite
// unique index is the authority preventing duplicate rows under concurrent
// submissions; resubmission updates the existing row in place.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_store"`
	StoreID   uint      `json:"store_id" gorm:"not null;uniqueIndex:idx_user_store;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Store *Store `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

// MinRating and MaxRating bound the accepted rating value.
const (
	MinRating = 1
	MaxRating = 5
)
