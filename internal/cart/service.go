package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type listingLoader interface {
	FindActiveListing(ctx context.Context, listingID uuid.UUID) (*models.ProductInfo, error)
}

// Service exposes the cart operations. Every user has at most one active
// cart; reading it creates it on demand.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, listingID uuid.UUID) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, userID, listingID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, listingID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	listings listingLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, listings listingLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing loader required")
	}
	return &service{repo: repo, tx: tx, listings: listings}, nil
}

// Get returns the user's active cart, creating an empty one on first use.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return FromModel(cart), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart, err = s.repo.Create(ctx, &models.Cart{UserID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return FromModel(cart), nil
}

// AddItem puts one unit of the listing into the cart. Adding a listing that
// is already in the cart changes nothing.
func (s *service) AddItem(ctx context.Context, userID, listingID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil || listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and listing id are required")
	}

	listing, err := s.loadListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "listing is out of stock")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.ensureActiveCart(ctx, repo, userID)
		if err != nil {
			return err
		}

		_, err = repo.FindItem(ctx, cart.ID, listingID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if _, err := repo.CreateItem(ctx, &models.CartItem{
			CartID:        cart.ID,
			ProductInfoID: listingID,
			Quantity:      1,
			ItemTotal:     listing.Price,
		}); err != nil {
			return err
		}
		return s.recomputeTotals(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, s.asCartError(err, "add cart item")
	}
	return s.Get(ctx, userID)
}

// UpdateItemQuantity sets the quantity of an existing cart line. Quantity
// must be a positive integer within the listing's stock.
func (s *service) UpdateItemQuantity(ctx context.Context, userID, listingID uuid.UUID, quantity int) (*CartDTO, error) {
	if userID == uuid.Nil || listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and listing id are required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	listing, err := s.loadListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if quantity > listing.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "quantity exceeds available stock").
			WithDetails(map[string]any{"available": listing.Quantity})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.ensureActiveCart(ctx, repo, userID)
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "listing is not in the cart")
			}
			return err
		}

		total := listing.Price.Mul(decimal.NewFromInt(int64(quantity)))
		if err := repo.UpdateItem(ctx, item.ID, quantity, total); err != nil {
			return err
		}
		return s.recomputeTotals(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, s.asCartError(err, "update cart item")
	}
	return s.Get(ctx, userID)
}

// RemoveItem drops the listing's line from the cart. Removing a listing that
// is not in the cart changes nothing.
func (s *service) RemoveItem(ctx context.Context, userID, listingID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil || listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and listing id are required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.ensureActiveCart(ctx, repo, userID)
		if err != nil {
			return err
		}

		removed, err := repo.DeleteItem(ctx, cart.ID, listingID)
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}
		return s.recomputeTotals(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, s.asCartError(err, "remove cart item")
	}
	return s.Get(ctx, userID)
}

func (s *service) ensureActiveCart(ctx context.Context, repo *Repository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return repo.Create(ctx, &models.Cart{UserID: userID})
}

func (s *service) loadListing(ctx context.Context, listingID uuid.UUID) (*models.ProductInfo, error) {
	listing, err := s.listings.FindActiveListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing is not available")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return listing, nil
}

// recomputeTotals rewrites every derived line total from the current listing
// price and the cart total from the lines, inside the caller's transaction.
func (s *service) recomputeTotals(ctx context.Context, repo *Repository, cartID uuid.UUID) error {
	items, err := repo.ListItems(ctx, cartID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for i := range items {
		item := &items[i]
		if item.ProductInfo == nil {
			continue
		}
		lineTotal := item.ProductInfo.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if !lineTotal.Equal(item.ItemTotal) {
			if err := repo.UpdateItem(ctx, item.ID, item.Quantity, lineTotal); err != nil {
				return err
			}
		}
		total = total.Add(lineTotal)
	}
	return repo.UpdateTotal(ctx, cartID, total)
}

func (s *service) asCartError(err error, op string) error {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
