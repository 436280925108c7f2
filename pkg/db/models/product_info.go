package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInfo is the per-shop listing of a product: stock, price, and the
// feed's own identifier. Unique per (product, shop); price and quantity are
// last-write-wins on import.
type ProductInfo struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID          `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_shop"`
	ShopID           uuid.UUID          `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:idx_product_shop"`
	ExternalID       int64              `gorm:"column:external_id;not null"`
	Quantity         int                `gorm:"column:quantity;not null;default:0"`
	Price            decimal.Decimal    `gorm:"column:price;type:numeric(9,2);not null"`
	RecommendedPrice *decimal.Decimal   `gorm:"column:recommended_price;type:numeric(9,2)"`
	Product          *Product           `gorm:"foreignKey:ProductID"`
	Shop             *Shop              `gorm:"foreignKey:ShopID"`
	Parameters       []ProductParameter `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
