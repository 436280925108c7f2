package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. ExternalID is the feed-supplied identifier.
type Category struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalID int64     `gorm:"column:external_id;not null;uniqueIndex"`
	Name       string    `gorm:"column:name;not null"`
	Slug       string    `gorm:"column:slug;not null"`
	Shops      []Shop    `gorm:"many2many:shop_categories"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
