package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProgramRequest struct {
	Title      string `json:"title"       validate:"required,min=2,max=100"`
	RewardName string `json:"reward_name" validate:"required,min=2,max=100"`
	MaxStamps  int    `json:"max_stamps"  validate:"required,min=1,max=100"`
	StampIcon  string `json:"stamp_icon"  validate:"omitempty,max=50"`
}

type UpdateProgramRequest struct {
	Title      string `json:"title"       validate:"omitempty,min=2,max=100"`
	RewardName string `json:"reward_name" validate:"omitempty,min=2,max=100"`
	StampIcon  string `json:"stamp_icon"  validate:"omitempty,max=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProgramResponse struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Title      string `json:"title"`
	RewardName string `json:"reward_name"`
	MaxStamps  int    `json:"max_stamps"`
	StampIcon  string `json:"stamp_icon"`
	Active     bool   `json:"active"`
}
