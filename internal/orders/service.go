package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/internal/cart"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type contactFinder interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Contact, error)
}

// Service exposes checkout and order lifecycle operations.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error)
	ListOwn(ctx context.Context, userID uuid.UUID, page pagination.Params) (*OrderList, error)
	GetOwn(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListForShop(ctx context.Context, shopID uuid.UUID, page pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	repo     *Repository
	carts    *cart.Repository
	contacts contactFinder
	tx       txRunner
}

// ServiceParams bundles the dependencies required to build the order service.
type ServiceParams struct {
	Repo     *Repository
	Carts    *cart.Repository
	Contacts contactFinder
	Tx       txRunner
}

// NewService builds an order service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Contacts == nil {
		return nil, fmt.Errorf("contact finder required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     params.Repo,
		carts:    params.Carts,
		contacts: params.Contacts,
		tx:       params.Tx,
	}, nil
}

// Checkout converts the user's active cart into an order, snapshotting every
// line and decrementing listing stock. The cart flips to converted in the
// same transaction, so a cart checks out at most once.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	method := input.DeliveryMethod
	if method == "" {
		method = enums.DeliveryMethodPickup
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery method")
	}
	if method == enums.DeliveryMethodDelivery {
		if input.Address == nil || strings.TrimSpace(*input.Address) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery requires an address")
		}
	}
	if input.ContactID != nil {
		if _, err := s.contacts.FindByIDAndUser(ctx, *input.ContactID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact")
		}
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		orderRepo := s.repo.WithTx(tx)

		active, err := cartRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "no active cart to check out")
			}
			return err
		}
		if len(active.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		items, total, err := snapshotLines(active.Items)
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID:         userID,
			CartID:         active.ID,
			ContactID:      input.ContactID,
			Status:         enums.OrderStatusNew,
			DeliveryMethod: method,
			Address:        input.Address,
			Comment:        input.Comment,
			TotalSum:       total,
			Items:          items,
		}
		if _, err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		for i := range items {
			err := orderRepo.DecrementListingStock(ctx, items[i].ProductInfoID, items[i].Quantity)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for "+items[i].ProductName)
				}
				return err
			}
		}

		if err := cartRepo.MarkConverted(ctx, active.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is already checked out")
			}
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}
	return FromModel(placed), nil
}

// snapshotLines copies cart lines into order lines, verifying each listing is
// still sellable at the requested quantity.
func snapshotLines(lines []models.CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero

	for i := range lines {
		line := &lines[i]
		listing := line.ProductInfo
		if listing == nil {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeDependency, "cart line lost its listing")
		}

		name := ""
		if listing.Product != nil {
			name = listing.Product.Name
		}
		if listing.Shop == nil || listing.Shop.State != enums.ShopStateOn {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeConflict, "shop no longer accepts orders").
				WithDetails(map[string]any{"product": name})
		}
		if line.Quantity > listing.Quantity {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeConflict, "quantity exceeds available stock").
				WithDetails(map[string]any{"product": name, "available": listing.Quantity})
		}

		lineTotal := listing.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderItem{
			ProductInfoID: listing.ID,
			ShopID:        listing.ShopID,
			ProductName:   name,
			Quantity:      line.Quantity,
			Price:         listing.Price,
			ItemTotal:     lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return items, total, nil
}

// ListOwn returns the user's orders, newest first.
func (s *service) ListOwn(ctx context.Context, userID uuid.UUID, page pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	list, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// GetOwn returns one of the user's orders.
func (s *service) GetOwn(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return FromModel(order), nil
}

// ListForShop returns orders containing the shop's goods, newest first.
func (s *service) ListForShop(ctx context.Context, shopID uuid.UUID, page pagination.Params) (*OrderList, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	list, err := s.repo.ListByShop(ctx, shopID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop orders")
	}
	return list, nil
}

// UpdateStatus advances an order through its lifecycle, rejecting moves the
// state machine does not allow.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = next
	return FromModel(order), nil
}
