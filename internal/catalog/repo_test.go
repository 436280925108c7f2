package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One named in-memory database per test keeps shop names and feed
	// external ids from leaking between tests.
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	shops := `
CREATE TABLE IF NOT EXISTS shops (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  url TEXT,
  state TEXT NOT NULL DEFAULT 'off',
  owner_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  external_id INTEGER NOT NULL UNIQUE,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	shopCategories := `
CREATE TABLE IF NOT EXISTS shop_categories (
  shop_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  PRIMARY KEY (shop_id, category_id)
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  external_id INTEGER NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category_id TEXT NOT NULL,
  model TEXT,
  slug TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	productInfos := `
CREATE TABLE IF NOT EXISTS product_infos (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  shop_id TEXT NOT NULL,
  external_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL,
  recommended_price NUMERIC,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, shop_id)
);`
	parameters := `
CREATE TABLE IF NOT EXISTS parameters (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	productParameters := `
CREATE TABLE IF NOT EXISTS product_parameters (
  id TEXT PRIMARY KEY,
  product_info_id TEXT NOT NULL,
  parameter_id TEXT NOT NULL,
  value TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_info_id, parameter_id)
);`
	for _, ddl := range []string{shops, categories, shopCategories, products, productInfos, parameters, productParameters} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func newShop(t *testing.T, db *gorm.DB, name string, state enums.ShopState) *models.Shop {
	t.Helper()

	owner := uuid.New()
	shop := &models.Shop{
		ID:      uuid.New(),
		Name:    name,
		State:   state,
		OwnerID: &owner,
	}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

func newCategory(t *testing.T, db *gorm.DB, externalID int64, name string) *models.Category {
	t.Helper()

	cat := &models.Category{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       name,
		Slug:       Slugify(name),
	}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func newProduct(t *testing.T, db *gorm.DB, cat *models.Category, externalID int64, name string, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       name,
		CategoryID: cat.ID,
		Slug:       Slugify(name),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func newListing(t *testing.T, db *gorm.DB, product *models.Product, shop *models.Shop, qty int, price string) *models.ProductInfo {
	t.Helper()

	info := &models.ProductInfo{
		ID:         uuid.New(),
		ProductID:  product.ID,
		ShopID:     shop.ID,
		ExternalID: product.ExternalID,
		Quantity:   qty,
		Price:      decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(info).Error)
	return info
}

func TestRepositoryListProducts_visibility(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	active := newShop(t, db, "Browse Active Shop", enums.ShopStateOn)
	dormant := newShop(t, db, "Browse Dormant Shop", enums.ShopStateOff)
	cat := newCategory(t, db, 9101, "Browse Phones")

	now := time.Now().UTC()
	visible := newProduct(t, db, cat, 910101, "Visible Phone", now)
	newListing(t, db, visible, active, 4, "199.90")
	newListing(t, db, visible, dormant, 9, "149.90")

	soldOut := newProduct(t, db, cat, 910102, "Sold Out Phone", now.Add(-time.Minute))
	newListing(t, db, soldOut, active, 0, "99.90")

	offOnly := newProduct(t, db, cat, 910103, "Dormant Phone", now.Add(-2*time.Minute))
	newListing(t, db, offOnly, dormant, 7, "59.90")

	list, err := repo.ListProducts(context.Background(), ProductListFilters{CategoryID: &cat.ID}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, visible.ID, list.Products[0].ID)
	assert.Equal(t, "Browse Phones", list.Products[0].Category.Name)
	assert.Equal(t, 1, list.Products[0].Shops)
	assert.True(t, list.Products[0].MinPrice.Equal(decimal.RequireFromString("199.90")))
	assert.Empty(t, list.NextCursor)
}

func TestRepositoryListProducts_pagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	shop := newShop(t, db, "Paging Shop", enums.ShopStateOn)
	cat := newCategory(t, db, 9102, "Paging Laptops")

	now := time.Now().UTC()
	older := newProduct(t, db, cat, 910201, "Older Laptop", now.Add(-time.Hour))
	newer := newProduct(t, db, cat, 910202, "Newer Laptop", now)
	newListing(t, db, older, shop, 2, "500.00")
	newListing(t, db, newer, shop, 2, "700.00")

	first, err := repo.ListProducts(context.Background(), ProductListFilters{CategoryID: &cat.ID}, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, first.Products, 1)
	assert.Equal(t, newer.ID, first.Products[0].ID)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListProducts(context.Background(), ProductListFilters{CategoryID: &cat.ID}, pagination.Params{Limit: 1, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, older.ID, second.Products[0].ID)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryListProducts_search(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	shop := newShop(t, db, "Search Shop", enums.ShopStateOn)
	cat := newCategory(t, db, 9103, "Search Audio")

	now := time.Now().UTC()
	match := newProduct(t, db, cat, 910301, "Wireless Headphones", now)
	other := newProduct(t, db, cat, 910302, "Desk Speaker", now.Add(-time.Minute))
	newListing(t, db, match, shop, 3, "89.00")
	newListing(t, db, other, shop, 3, "49.00")

	list, err := repo.ListProducts(context.Background(), ProductListFilters{CategoryID: &cat.ID, Query: "Headphones"}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, match.ID, list.Products[0].ID)
}

func TestRepositoryGetProductDetail(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	cheap := newShop(t, db, "Detail Cheap Shop", enums.ShopStateOn)
	pricey := newShop(t, db, "Detail Pricey Shop", enums.ShopStateOn)
	dormant := newShop(t, db, "Detail Dormant Shop", enums.ShopStateOff)
	cat := newCategory(t, db, 9104, "Detail Tablets")

	product := newProduct(t, db, cat, 910401, "Detail Tablet", time.Now().UTC())
	newListing(t, db, product, pricey, 5, "320.00")
	cheapListing := newListing(t, db, product, cheap, 2, "280.00")
	newListing(t, db, product, dormant, 8, "250.00")

	param := &models.Parameter{ID: uuid.New(), Name: "diagonal"}
	require.NoError(t, db.Create(param).Error)
	require.NoError(t, db.Create(&models.ProductParameter{
		ID:            uuid.New(),
		ProductInfoID: cheapListing.ID,
		ParameterID:   param.ID,
		Value:         "10.5",
	}).Error)

	detail, err := repo.GetProductDetail(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Detail Tablet", detail.Name)
	assert.Equal(t, "Detail Tablets", detail.Category.Name)
	require.Len(t, detail.Listings, 2)
	assert.Equal(t, "Detail Cheap Shop", detail.Listings[0].Shop.Name)
	assert.Equal(t, "Detail Pricey Shop", detail.Listings[1].Shop.Name)
	require.Len(t, detail.Listings[0].Parameters, 1)
	assert.Equal(t, "diagonal", detail.Listings[0].Parameters[0].Name)
	assert.Equal(t, "10.5", detail.Listings[0].Parameters[0].Value)

	_, err = repo.GetProductDetail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindActiveListing(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	active := newShop(t, db, "Active Listing Shop", enums.ShopStateOn)
	dormant := newShop(t, db, "Inactive Listing Shop", enums.ShopStateOff)
	cat := newCategory(t, db, 9105, "Listing Cameras")

	product := newProduct(t, db, cat, 910501, "Listing Camera", time.Now().UTC())
	live := newListing(t, db, product, active, 3, "410.00")
	dead := newListing(t, db, product, dormant, 3, "400.00")

	found, err := repo.FindActiveListing(context.Background(), live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.ID, found.ID)
	require.NotNil(t, found.Product)
	assert.Equal(t, "Listing Camera", found.Product.Name)

	_, err = repo.FindActiveListing(context.Background(), dead.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListListingsByShop(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	shop := newShop(t, db, "Own Listings Shop", enums.ShopStateOn)
	cat := newCategory(t, db, 9106, "Own Monitors")

	now := time.Now().UTC()
	first := newProduct(t, db, cat, 910601, "Office Monitor", now.Add(-time.Minute))
	second := newProduct(t, db, cat, 910602, "Gaming Monitor", now)
	newListing(t, db, first, shop, 1, "150.00")
	newListing(t, db, second, shop, 2, "350.00")

	list, err := repo.ListListingsByShop(context.Background(), shop.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, info := range list {
		require.NotNil(t, info.Product)
	}
}

func TestServicePartnerState(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	shop := newShop(t, db, "State Toggle Shop", enums.ShopStateOn)

	state, err := svc.PartnerState(context.Background(), shop.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ShopStateOn, state.State)

	state, err = svc.SetPartnerState(context.Background(), shop.ID, enums.ShopStateOff)
	require.NoError(t, err)
	assert.Equal(t, enums.ShopStateOff, state.State)

	reloaded, err := repo.FindShopByID(context.Background(), shop.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ShopStateOff, reloaded.State)
}
