package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// CategoryDTO is the transport shape of a catalog category.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ShopSummaryDTO identifies the shop behind a listing.
type ShopSummaryDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	State enums.ShopState `json:"state"`
}

// ListingDTO is one shop's offer for a product.
type ListingDTO struct {
	ID               uuid.UUID        `json:"id"`
	Shop             ShopSummaryDTO   `json:"shop"`
	Quantity         int              `json:"quantity"`
	Price            decimal.Decimal  `json:"price"`
	RecommendedPrice *decimal.Decimal `json:"recommended_price,omitempty"`
	Parameters       []ParameterDTO   `json:"parameters,omitempty"`
}

// ParameterDTO is a named attribute value attached to a listing.
type ParameterDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductSummaryDTO is the browse-view shape: the product plus the cheapest
// available listing.
type ProductSummaryDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Model     string          `json:"model,omitempty"`
	Slug      string          `json:"slug"`
	Category  CategoryDTO     `json:"category"`
	MinPrice  decimal.Decimal `json:"min_price"`
	Shops     int             `json:"shops"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductDetailDTO is the detail-view shape with every active listing.
type ProductDetailDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Model       string       `json:"model,omitempty"`
	Slug        string       `json:"slug"`
	Description *string      `json:"description,omitempty"`
	Category    CategoryDTO  `json:"category"`
	Listings    []ListingDTO `json:"listings"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PartnerStateDTO reports the shop's accepting-orders switch.
type PartnerStateDTO struct {
	ShopID uuid.UUID       `json:"shop_id"`
	Name   string          `json:"name"`
	State  enums.ShopState `json:"state"`
}

// PartnerListingDTO is the partner's own-listing view.
type PartnerListingDTO struct {
	ID               uuid.UUID        `json:"id"`
	ProductID        uuid.UUID        `json:"product_id"`
	ProductName      string           `json:"product_name"`
	ExternalID       int64            `json:"external_id"`
	Quantity         int              `json:"quantity"`
	Price            decimal.Decimal  `json:"price"`
	RecommendedPrice *decimal.Decimal `json:"recommended_price,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ImportResult summarizes one feed import.
type ImportResult struct {
	ShopID        uuid.UUID `json:"shop_id"`
	Shop          string    `json:"shop"`
	Categories    int       `json:"categories"`
	GoodsCreated  int       `json:"goods_created"`
	GoodsUpdated  int       `json:"goods_updated"`
	ParamsWritten int       `json:"parameters_written"`
}

func categoryFromModel(c *models.Category) CategoryDTO {
	if c == nil {
		return CategoryDTO{}
	}
	return CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func listingFromModel(info *models.ProductInfo) ListingDTO {
	dto := ListingDTO{
		ID:               info.ID,
		Quantity:         info.Quantity,
		Price:            info.Price,
		RecommendedPrice: info.RecommendedPrice,
	}
	if info.Shop != nil {
		dto.Shop = ShopSummaryDTO{ID: info.Shop.ID, Name: info.Shop.Name, State: info.Shop.State}
	}
	for _, pp := range info.Parameters {
		if pp.Parameter == nil {
			continue
		}
		dto.Parameters = append(dto.Parameters, ParameterDTO{Name: pp.Parameter.Name, Value: pp.Value})
	}
	return dto
}

func partnerListingFromModel(info *models.ProductInfo) PartnerListingDTO {
	dto := PartnerListingDTO{
		ID:               info.ID,
		ProductID:        info.ProductID,
		ExternalID:       info.ExternalID,
		Quantity:         info.Quantity,
		Price:            info.Price,
		RecommendedPrice: info.RecommendedPrice,
		UpdatedAt:        info.UpdatedAt,
	}
	if info.Product != nil {
		dto.ProductName = info.Product.Name
	}
	return dto
}
