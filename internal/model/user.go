package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity record, created on first authentication.
// Role: "customer" | "merchant" | "staff" | "admin"
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Subject is the opaque identifier supplied by the auth provider.
	Subject      string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	DisplayName  string `gorm:"not null"`
	Phone        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'customer'"`
	Plan         string `gorm:"type:varchar(20);not null;default:'free'"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
