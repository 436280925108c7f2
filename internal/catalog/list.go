package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/pagination"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	CategoryID *uuid.UUID
	ShopID     *uuid.UUID
	Query      string
}

// ProductList is one browse page plus the cursor for the next one.
type ProductList struct {
	Products   []ProductSummaryDTO `json:"products"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// ListProducts returns products that have at least one in-stock listing in an
// active shop, newest first, cursor-paginated.
func (r *Repository) ListProducts(ctx context.Context, filters ProductListFilters, page pagination.Params) (*ProductList, error) {
	limit := pagination.LimitWithBuffer(page.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Joins("JOIN product_infos ON product_infos.product_id = products.id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.state = ?", enums.ShopStateOn).
		Where("product_infos.quantity > 0").
		Group("products.id").
		Order("products.created_at DESC, products.id DESC").
		Limit(limit)

	if filters.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filters.CategoryID)
	}
	if filters.ShopID != nil {
		query = query.Where("product_infos.shop_id = ?", *filters.ShopID)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("products.name LIKE ? OR products.model LIKE ?", pattern, pattern)
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(products.created_at < ?) OR (products.created_at = ? AND products.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	pageSize := pagination.NormalizeLimit(page.Limit)
	next := ""
	if len(products) > pageSize {
		products = products[:pageSize]
		last := products[len(products)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	out := &ProductList{Products: make([]ProductSummaryDTO, 0, len(products)), NextCursor: next}
	for i := range products {
		summary, err := r.summarizeProduct(ctx, &products[i])
		if err != nil {
			return nil, err
		}
		out.Products = append(out.Products, *summary)
	}
	return out, nil
}

func (r *Repository) summarizeProduct(ctx context.Context, product *models.Product) (*ProductSummaryDTO, error) {
	type aggregate struct {
		MinPrice decimal.NullDecimal
		Shops    int
	}
	var agg aggregate
	err := r.db.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Select("MIN(product_infos.price) AS min_price, COUNT(DISTINCT product_infos.shop_id) AS shops").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("product_infos.product_id = ?", product.ID).
		Where("shops.state = ?", enums.ShopStateOn).
		Where("product_infos.quantity > 0").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	summary := &ProductSummaryDTO{
		ID:        product.ID,
		Name:      product.Name,
		Model:     product.Model,
		Slug:      product.Slug,
		Category:  categoryFromModel(product.Category),
		Shops:     agg.Shops,
		CreatedAt: product.CreatedAt,
	}
	if agg.MinPrice.Valid {
		summary.MinPrice = agg.MinPrice.Decimal
	}
	return summary, nil
}

// GetProductDetail loads a product with its active listings and parameters.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	var listings []models.ProductInfo
	err = r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Parameters.Parameter").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("product_infos.product_id = ?", id).
		Where("shops.state = ?", enums.ShopStateOn).
		Order("product_infos.price ASC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}

	detail := &ProductDetailDTO{
		ID:          product.ID,
		Name:        product.Name,
		Model:       product.Model,
		Slug:        product.Slug,
		Description: product.Description,
		Category:    categoryFromModel(product.Category),
		Listings:    make([]ListingDTO, 0, len(listings)),
		CreatedAt:   product.CreatedAt,
	}
	for i := range listings {
		detail.Listings = append(detail.Listings, listingFromModel(&listings[i]))
	}
	return detail, nil
}

// FindActiveListing loads a listing only when its shop currently accepts
// orders. Used by the cart engine before adding a line.
func (r *Repository) FindActiveListing(ctx context.Context, listingID uuid.UUID) (*models.ProductInfo, error) {
	var info models.ProductInfo
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Shop").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("product_infos.id = ?", listingID).
		Where("shops.state = ?", enums.ShopStateOn).
		First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}
