package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanToken statuses. A token is never un-consumed or un-superseded; expiry is
// evaluated lazily against ExpiresAt, not stored as a status.
const (
	TokenIssued     = "issued"
	TokenConsumed   = "consumed"
	TokenSuperseded = "superseded"
)

// ScanToken is an ephemeral single-use credential minted for one membership
// and rendered as a QR code by the customer's wallet screen.
type ScanToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MembershipID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Payload is the opaque random string embedded in the QR image.
	Payload    string `gorm:"uniqueIndex;not null"`
	Status     string `gorm:"type:varchar(12);not null;default:'issued'"`
	IssuedAt   time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time

	Membership *Membership `gorm:"foreignKey:MembershipID"`
}

// Expired reports whether the token's TTL has elapsed at the given instant.
func (t *ScanToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
