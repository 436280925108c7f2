package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// OrderDTO is the transport shape of a placed order.
type OrderDTO struct {
	ID             uuid.UUID            `json:"id"`
	Status         enums.OrderStatus    `json:"status"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
	ContactID      *uuid.UUID           `json:"contact_id,omitempty"`
	Address        *string              `json:"address,omitempty"`
	Comment        *string              `json:"comment,omitempty"`
	TotalSum       decimal.Decimal      `json:"total_sum"`
	Items          []OrderItemDTO       `json:"items"`
	CreatedAt      time.Time            `json:"created_at"`
}

// OrderItemDTO is one snapshotted order line.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ListingID   uuid.UUID       `json:"listing_id"`
	ShopID      uuid.UUID       `json:"shop_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ItemTotal   decimal.Decimal `json:"item_total"`
}

// OrderList is one page of orders plus the cursor for the next one.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// CheckoutInput captures the delivery details supplied at checkout.
type CheckoutInput struct {
	ContactID      *uuid.UUID           `json:"contact_id" validate:"omitempty"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method" validate:"omitempty,oneof=pickup delivery"`
	Address        *string              `json:"address" validate:"omitempty,max=500"`
	Comment        *string              `json:"comment" validate:"omitempty,max=1000"`
}

// FromModel converts an order model into its DTO.
func FromModel(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:             order.ID,
		Status:         order.Status,
		DeliveryMethod: order.DeliveryMethod,
		ContactID:      order.ContactID,
		Address:        order.Address,
		Comment:        order.Comment,
		TotalSum:       order.TotalSum,
		Items:          make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:      order.CreatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID,
			ListingID:   item.ProductInfoID,
			ShopID:      item.ShopID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			ItemTotal:   item.ItemTotal,
		})
	}
	return dto
}
