package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// Cart is the mutable pre-checkout collection of a user's line items. The cart
// exclusively owns its items; CartTotal is derived and always equals the sum
// of the items' totals.
type Cart struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Status    enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CartTotal decimal.Decimal  `gorm:"column:cart_total;type:numeric(9,2);not null;default:0"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
