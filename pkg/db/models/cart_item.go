package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one cart line referencing a listing. ItemTotal is derived:
// listing price times quantity. One line per listing per cart.
type CartItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID        uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_listing"`
	ProductInfoID uuid.UUID       `gorm:"column:product_info_id;type:uuid;not null;uniqueIndex:idx_cart_listing"`
	Quantity      int             `gorm:"column:quantity;not null;default:1"`
	ItemTotal     decimal.Decimal `gorm:"column:item_total;type:numeric(9,2);not null;default:0"`
	ProductInfo   *ProductInfo    `gorm:"foreignKey:ProductInfoID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
