package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ResolveScanRequest struct {
	QRData     string `json:"qr_data"     validate:"required"`
	BusinessID string `json:"business_id" validate:"required,uuid"`
	ProgramID  string `json:"program_id"  validate:"required,uuid"`
}

type AddStampRequest struct {
	BusinessID     string `json:"business_id"      validate:"required,uuid"`
	ProgramID      string `json:"program_id"       validate:"required,uuid"`
	CustomerUserID string `json:"customer_user_id" validate:"required,uuid"`
}

type RedeemRewardRequest struct {
	BusinessID     string `json:"business_id"      validate:"required,uuid"`
	ProgramID      string `json:"program_id"       validate:"required,uuid"`
	CustomerUserID string `json:"customer_user_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MembershipSnapshot is the read-only view a staff member sees after a scan.
type MembershipSnapshot struct {
	MembershipID  string `json:"membership_id"`
	CurrentStamps int    `json:"current_stamps"`
	MaxStamps     int    `json:"max_stamps"`
	CanRedeemNow  bool   `json:"can_redeem_now"`
}

type ResolveScanResponse struct {
	CustomerUserID      string `json:"customer_user_id"`
	CustomerDisplayName string `json:"customer_display_name"`
	// Membership is nil when the customer has not joined this program yet.
	Membership *MembershipSnapshot `json:"membership"`
}

type AddStampResponse struct {
	OK            bool `json:"ok"`
	CurrentStamps int  `json:"current_stamps"`
	MaxStamps     int  `json:"max_stamps"`
	CanRedeemNow  bool `json:"can_redeem_now"`
}

type RedeemRewardResponse struct {
	OK         bool   `json:"ok"`
	RewardName string `json:"reward_name"`
}
