package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type JoinByQRRequest struct {
	QRData string `json:"qr_data" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ScanTokenResponse struct {
	ScanToken string `json:"scan_token"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}

type JoinByQRResponse struct {
	MembershipID   string `json:"membership_id"`
	BusinessID     string `json:"business_id"`
	ProgramID      string `json:"program_id"`
	AlreadyExisted bool   `json:"already_existed"`
}

// JoinPreviewResponse is the public card shown after scanning a join QR,
// before the customer authenticates.
type JoinPreviewResponse struct {
	BusinessName string `json:"business_name"`
	ProgramTitle string `json:"program_title"`
	RewardName   string `json:"reward_name"`
	MaxStamps    int    `json:"max_stamps"`
	StampIcon    string `json:"stamp_icon"`
}

// WalletCard is one loyalty card in the customer's wallet view.
type WalletCard struct {
	MembershipID  string `json:"membership_id"`
	BusinessName  string `json:"business_name"`
	ProgramID     string `json:"program_id"`
	ProgramTitle  string `json:"program_title"`
	RewardName    string `json:"reward_name"`
	StampIcon     string `json:"stamp_icon"`
	CurrentStamps int    `json:"current_stamps"`
	MaxStamps     int    `json:"max_stamps"`
	CanRedeemNow  bool   `json:"can_redeem_now"`
}
