package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// Order is the immutable post-checkout snapshot of a cart. Only Status moves
// after creation, through the transitions defined on enums.OrderStatus.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	CartID         uuid.UUID            `gorm:"column:cart_id;type:uuid;not null"`
	ContactID      *uuid.UUID           `gorm:"column:contact_id;type:uuid"`
	Status         enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'new'"`
	DeliveryMethod enums.DeliveryMethod `gorm:"column:delivery_method;type:text;not null;default:'pickup'"`
	Address        *string              `gorm:"column:address"`
	Comment        *string              `gorm:"column:comment"`
	TotalSum       decimal.Decimal      `gorm:"column:total_sum;type:numeric(9,2);not null"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
