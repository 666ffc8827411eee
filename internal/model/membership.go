package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership binds a customer to a LoyaltyProgram and tracks stamp progress.
// CurrentStamps only moves down through an explicit reward redemption.
type Membership struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_program"`
	ProgramID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_program"`
	CurrentStamps int        `gorm:"not null;default:0"`
	LastStampAt   *time.Time
	Active        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Program *LoyaltyProgram `gorm:"foreignKey:ProgramID"`
}

// CanRedeem reports whether the card has collected a full cycle of stamps.
func (m *Membership) CanRedeem(maxStamps int) bool {
	return m.CurrentStamps >= maxStamps
}
