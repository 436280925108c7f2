package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// CartDTO is the transport shape of a cart with its lines.
type CartDTO struct {
	ID        uuid.UUID        `json:"id"`
	Status    enums.CartStatus `json:"status"`
	Items     []CartItemDTO    `json:"items"`
	CartTotal decimal.Decimal  `json:"cart_total"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CartItemDTO is one cart line with enough listing context to render it.
type CartItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ListingID   uuid.UUID       `json:"listing_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ShopID      uuid.UUID       `json:"shop_id"`
	ShopName    string          `json:"shop_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ItemTotal   decimal.Decimal `json:"item_total"`
}

// FromModel converts a cart model into its DTO.
func FromModel(cart *models.Cart) *CartDTO {
	dto := &CartDTO{
		ID:        cart.ID,
		Status:    cart.Status,
		Items:     make([]CartItemDTO, 0, len(cart.Items)),
		CartTotal: cart.CartTotal,
		UpdatedAt: cart.UpdatedAt,
	}
	for i := range cart.Items {
		dto.Items = append(dto.Items, itemFromModel(&cart.Items[i]))
	}
	return dto
}

func itemFromModel(item *models.CartItem) CartItemDTO {
	dto := CartItemDTO{
		ID:        item.ID,
		ListingID: item.ProductInfoID,
		Quantity:  item.Quantity,
		ItemTotal: item.ItemTotal,
	}
	if item.ProductInfo != nil {
		dto.ProductID = item.ProductInfo.ProductID
		dto.ShopID = item.ProductInfo.ShopID
		dto.Price = item.ProductInfo.Price
		if item.ProductInfo.Product != nil {
			dto.ProductName = item.ProductInfo.Product.Name
		}
		if item.ProductInfo.Shop != nil {
			dto.ShopName = item.ProductInfo.Shop.Name
		}
	}
	return dto
}
