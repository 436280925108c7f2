package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// Contact is a shipping contact entry (phone number or address) owned by a user.
type Contact struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Type      enums.ContactType `gorm:"column:type;type:text;not null;default:'phone'"`
	Value     string            `gorm:"column:value;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
