package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateBusinessRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
}

type SetActiveRequest struct {
	// Pointer so an explicit false survives validation.
	Active *bool `json:"active" validate:"required"`
}

type InviteStaffRequest struct {
	// Email of an already-registered user to add as staff.
	Email string `json:"email" validate:"required,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BusinessResponse struct {
	ID          string `json:"id"`
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
	// JoinQRPayload is the raw string merchants print as their join QR code.
	JoinQRPayload string `json:"join_qr_payload"`
}

type StaffResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Active      bool   `json:"active"`
}

type StampEventResponse struct {
	ID              string `json:"id"`
	EventType       string `json:"event_type"`
	CustomerUserID  string `json:"customer_user_id"`
	StaffUserID     string `json:"staff_user_id"`
	ProgramID       string `json:"program_id"`
	ResultingStamps int    `json:"resulting_stamps"`
	CreatedAt       string `json:"created_at"`
}

type StampEventListResponse struct {
	Data  []StampEventResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type StampEventFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
