package auth

import (
	"github.com/MaxKocheshkov/API-service-for-retail/internal/users"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// RegisterRequest is the payload accepted from the signup endpoint.
type RegisterRequest struct {
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8,max=128"`
	UserName string         `json:"user_name" validate:"required,min=2,max=100"`
	Company  *string        `json:"company,omitempty" validate:"omitempty,max=200"`
	Position *string        `json:"position,omitempty" validate:"omitempty,max=200"`
	Role     enums.UserRole `json:"role,omitempty" validate:"omitempty,oneof=customer partner"`
}

// RegisterResponse returns the created account. VerificationToken is only
// populated outside production, where no mail delivery is wired.
type RegisterResponse struct {
	User              *users.UserDTO `json:"user"`
	VerificationToken string         `json:"verification_token,omitempty"`
}

// VerifyRequest carries the email confirmation parameters.
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

// LoginRequest is the payload accepted from the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair plus the authenticated profile.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest rotates an expiring token pair.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries the replacement token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes the current session.
type LogoutRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}
