package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Email       string  `json:"email"        validate:"required,email"`
	DisplayName string  `json:"display_name" validate:"required,min=2,max=100"`
	Password    string  `json:"password"     validate:"required,min=8"`
	Phone       *string `json:"phone"        validate:"omitempty,min=6,max=20"`
	// Role defaults to customer; merchants self-select during onboarding.
	Role string `json:"role" validate:"omitempty,oneof=customer merchant"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Phone       *string `json:"phone"`
	Role        string  `json:"role"`
	Plan        string  `json:"plan"`
	Active      bool    `json:"active"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}
