package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	UserName    string         `json:"user_name"`
	Company     *string        `json:"company,omitempty"`
	Position    *string        `json:"position,omitempty"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	UserName     string
	Company      *string
	Position     *string
	Role         enums.UserRole
}

// UpdateProfileDTO carries the mutable account fields. Nil means keep current.
type UpdateProfileDTO struct {
	UserName *string
	Company  *string
	Position *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		UserName:    u.UserName,
		Company:     u.Company,
		Position:    u.Position,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		UserName:     c.UserName,
		Company:      c.Company,
		Position:     c.Position,
		Role:         role,
		IsActive:     false,
	}
}
