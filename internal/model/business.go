package model

import (
	"time"

	"github.com/google/uuid"
)

// Business is a merchant-owned storefront.
type Business struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	// ExternalID is globally unique and embedded in the printed join QR
	// ("businessExternalId:<id>"). Never rotated once published.
	ExternalID  string `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"not null"`
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Programs []LoyaltyProgram `gorm:"foreignKey:BusinessID"`
	Staff    []BusinessStaff  `gorm:"foreignKey:BusinessID"`
}

// BusinessStaff links a User to a Business with a role.
// Role: "owner" | "staff". At most one active record per (business, user);
// the owner record is created with the business and never demoted implicitly.
type BusinessStaff struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_business_user"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_business_user"`
	Role       string    `gorm:"type:varchar(10);not null"`
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
