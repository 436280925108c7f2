package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one cart line at checkout. Product name, shop, and price
// are copied so later catalog imports cannot rewrite order history.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductInfoID uuid.UUID       `gorm:"column:product_info_id;type:uuid;not null"`
	ShopID        uuid.UUID       `gorm:"column:shop_id;type:uuid;not null"`
	ProductName   string          `gorm:"column:product_name;not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(9,2);not null"`
	ItemTotal     decimal.Decimal `gorm:"column:item_total;type:numeric(9,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
