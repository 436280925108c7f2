package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// User is an account identity. Email is the login key and unique.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	UserName        string         `gorm:"column:user_name;not null"`
	Company         *string        `gorm:"column:company"`
	Position        *string        `gorm:"column:position"`
	Role            enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	IsActive        bool           `gorm:"column:is_active;not null;default:false"`
	EmailVerifiedAt *time.Time     `gorm:"column:email_verified_at"`
	LastLoginAt     *time.Time     `gorm:"column:last_login_at"`
	Contacts        []Contact      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
