package model

import "time"

// User represents an identity in the system: an administrator, a normal
// user, or a store owner provisioned by store creation.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:60;not null;index"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Address      string    `json:"address" gorm:"size:400;not null"`
	Role         Role      `json:"role" gorm:"type:enum('admin','user','store_owner');default:'user';not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
