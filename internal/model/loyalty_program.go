package model

import (
	"time"

	"github.com/google/uuid"
)

// LoyaltyProgram is a reward scheme owned by a Business: collect MaxStamps
// stamps, redeem RewardName.
type LoyaltyProgram struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string    `gorm:"not null"`
	RewardName string    `gorm:"not null"`
	MaxStamps  int       `gorm:"not null"`
	StampIcon  string    `gorm:"type:varchar(50);not null;default:'star'"`
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
