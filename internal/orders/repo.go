package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order and its snapshotted lines.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByIDAndUser returns the order only when it belongs to the user.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByID loads an order by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first, cursor-paginated.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, page pagination.Params) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("orders.user_id = ?", userID)
	return r.listOrders(ctx, query, page)
}

// ListByShop returns orders containing at least one line from the shop,
// newest first, cursor-paginated.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID, page pagination.Params) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("orders.id IN (?)", r.db.
			Model(&models.OrderItem{}).
			Select("order_id").
			Where("shop_id = ?", shopID))
	return r.listOrders(ctx, query, page)
}

func (r *Repository) listOrders(ctx context.Context, query *gorm.DB, page pagination.Params) (*OrderList, error) {
	limit := pagination.LimitWithBuffer(page.Limit)

	query = query.
		Preload("Items").
		Order("orders.created_at DESC, orders.id DESC").
		Limit(limit)

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(orders.created_at < ?) OR (orders.created_at = ? AND orders.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var records []models.Order
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	pageSize := pagination.NormalizeLimit(page.Limit)
	next := ""
	if len(records) > pageSize {
		records = records[:pageSize]
		last := records[len(records)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	list := &OrderList{Orders: make([]OrderDTO, 0, len(records)), NextCursor: next}
	for i := range records {
		list.Orders = append(list.Orders, *FromModel(&records[i]))
	}
	return list, nil
}

// UpdateStatus writes the new status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// DecrementListingStock subtracts the ordered quantity from the listing,
// refusing to go below zero. Returns gorm.ErrRecordNotFound when the stock
// no longer covers the order.
func (r *Repository) DecrementListingStock(ctx context.Context, listingID uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Where("id = ? AND quantity >= ?", listingID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
