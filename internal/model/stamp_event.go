package model

import (
	"time"

	"github.com/google/uuid"
)

// StampEvent types.
const (
	EventStampAdded     = "STAMP_ADDED"
	EventRewardRedeemed = "REWARD_REDEEMED"
)

// StampEvent is an immutable audit record of a stamp grant or reward
// redemption. Events are NEVER modified or deleted — the cooldown check and
// the analytics screens both read this ledger.
type StampEvent struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusinessID     uuid.UUID `gorm:"type:uuid;not null;index:idx_events_business_customer"`
	ProgramID      uuid.UUID `gorm:"type:uuid;not null"`
	CustomerUserID uuid.UUID `gorm:"type:uuid;not null;index:idx_events_business_customer"`
	StaffUserID    uuid.UUID `gorm:"type:uuid;not null"`
	EventType      string    `gorm:"type:varchar(20);not null"`
	// ResultingStamps is the stamp count right after the event applied.
	ResultingStamps int `gorm:"not null"`
	CreatedAt       time.Time `gorm:"index"`
}
