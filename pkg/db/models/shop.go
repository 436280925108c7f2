package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// Shop is a seller publishing product listings. Feeds match shops by name.
type Shop struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string          `gorm:"column:name;not null;uniqueIndex"`
	URL        *string         `gorm:"column:url"`
	State      enums.ShopState `gorm:"column:state;type:text;not null;default:'off'"`
	OwnerID    *uuid.UUID      `gorm:"column:owner_id;type:uuid"`
	Categories []Category      `gorm:"many2many:shop_categories"`
	Listings   []ProductInfo   `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
