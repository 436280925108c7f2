package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// Repository exposes catalog persistence: shops, categories, products,
// listings, and parameters.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindShopByName loads a shop by its unique name.
func (r *Repository) FindShopByName(ctx context.Context, name string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindShopByNameForUpdate locks the shop row so concurrent imports for the
// same shop serialize. sqlite has no FOR UPDATE; its writes serialize anyway.
func (r *Repository) FindShopByNameForUpdate(ctx context.Context, name string) (*models.Shop, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var shop models.Shop
	if err := query.Where("name = ?", name).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// CreateShop inserts a new shop row. IDs are assigned here rather than by the
// database so sqlite-backed tests work without a uuid default.
func (r *Repository) CreateShop(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// FindByOwner returns the shop owned by the given user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindShopByID loads a shop by primary key.
func (r *Repository) FindShopByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// UpdateShopState flips the accepting-orders switch.
func (r *Repository) UpdateShopState(ctx context.Context, id uuid.UUID, state enums.ShopState) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", id).
		UpdateColumn("state", state).Error
}

// ClaimShop assigns an owner and feed URL to a previously unowned shop.
func (r *Repository) ClaimShop(ctx context.Context, id, ownerID uuid.UUID, url *string) error {
	updates := map[string]any{"owner_id": ownerID}
	if url != nil {
		updates["url"] = *url
	}
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", id).
		UpdateColumns(updates).Error
}

// FindCategoryByExternalID loads a category by the feed-supplied id.
func (r *Repository) FindCategoryByExternalID(ctx context.Context, externalID int64) (*models.Category, error) {
	var cat models.Category
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if cat.ID == uuid.Nil {
		cat.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

// LinkShopCategory attaches a category to a shop, ignoring repeats.
func (r *Repository) LinkShopCategory(ctx context.Context, shopID, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Table("shop_categories").
		Create(map[string]any{
			"shop_id":     shopID,
			"category_id": categoryID,
		}).Error
}

// FindProductByExternalID loads a product by the feed-supplied id.
func (r *Repository) FindProductByExternalID(ctx context.Context, externalID int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindListing loads the listing for one product in one shop.
func (r *Repository) FindListing(ctx context.Context, productID, shopID uuid.UUID) (*models.ProductInfo, error) {
	var info models.ProductInfo
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND shop_id = ?", productID, shopID).
		First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateListing inserts a per-shop listing row.
func (r *Repository) CreateListing(ctx context.Context, info *models.ProductInfo) (*models.ProductInfo, error) {
	if info.ID == uuid.Nil {
		info.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(info).Error; err != nil {
		return nil, err
	}
	return info, nil
}

// UpdateListing overwrites the volatile listing fields.
func (r *Repository) UpdateListing(ctx context.Context, info *models.ProductInfo) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Where("id = ?", info.ID).
		UpdateColumns(map[string]any{
			"external_id":       info.ExternalID,
			"quantity":          info.Quantity,
			"price":             info.Price,
			"recommended_price": info.RecommendedPrice,
		}).Error
}

// ListListingsByShop returns the shop's listings with product names, newest
// update first.
func (r *Repository) ListListingsByShop(ctx context.Context, shopID uuid.UUID) ([]models.ProductInfo, error) {
	var list []models.ProductInfo
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("shop_id = ?", shopID).
		Order("updated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// EnsureParameter returns the parameter with the given name, creating it on
// first use.
func (r *Repository) EnsureParameter(ctx context.Context, name string) (*models.Parameter, error) {
	var param models.Parameter
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&param).Error
	if err == nil {
		return &param, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	param = models.Parameter{ID: uuid.New(), Name: name}
	if err := r.db.WithContext(ctx).Create(&param).Error; err != nil {
		return nil, err
	}
	return &param, nil
}

// UpsertParameterValue writes the value for (listing, parameter), replacing a
// previous value.
func (r *Repository) UpsertParameterValue(ctx context.Context, infoID, parameterID uuid.UUID, value string) error {
	var existing models.ProductParameter
	err := r.db.WithContext(ctx).
		Where("product_info_id = ? AND parameter_id = ?", infoID, parameterID).
		First(&existing).Error
	if err == nil {
		if existing.Value == value {
			return nil
		}
		return r.db.WithContext(ctx).
			Model(&models.ProductParameter{}).
			Where("id = ?", existing.ID).
			UpdateColumn("value", value).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	return r.db.WithContext(ctx).Create(&models.ProductParameter{
		ID:            uuid.New(),
		ProductInfoID: infoID,
		ParameterID:   parameterID,
		Value:         value,
	}).Error
}
