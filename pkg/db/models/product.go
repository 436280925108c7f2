package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the canonical catalog entry. Shops carry it through ProductInfo
// rows; identity fields (name, category, model) are first-write-wins on import.
type Product struct {
	ID          uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalID  int64         `gorm:"column:external_id;not null;uniqueIndex"`
	Name        string        `gorm:"column:name;not null"`
	CategoryID  uuid.UUID     `gorm:"column:category_id;type:uuid;not null"`
	Model       string        `gorm:"column:model"`
	Slug        string        `gorm:"column:slug;not null"`
	Description *string       `gorm:"column:description"`
	Category    *Category     `gorm:"foreignKey:CategoryID"`
	Listings    []ProductInfo `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
