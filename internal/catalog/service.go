package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/pagination"
)

// Service exposes the read side of the catalog plus partner shop management.
type Service interface {
	Browse(ctx context.Context, filters ProductListFilters, page pagination.Params) (*ProductList, error)
	ProductDetail(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error)
	PartnerState(ctx context.Context, shopID uuid.UUID) (*PartnerStateDTO, error)
	SetPartnerState(ctx context.Context, shopID uuid.UUID, state enums.ShopState) (*PartnerStateDTO, error)
	PartnerListings(ctx context.Context, shopID uuid.UUID) ([]PartnerListingDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Browse(ctx context.Context, filters ProductListFilters, page pagination.Params) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) ProductDetail(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	detail, err := s.repo.GetProductDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return detail, nil
}

func (s *service) PartnerState(ctx context.Context, shopID uuid.UUID) (*PartnerStateDTO, error) {
	shop, err := s.loadShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return stateFromShop(shop), nil
}

func (s *service) SetPartnerState(ctx context.Context, shopID uuid.UUID, state enums.ShopState) (*PartnerStateDTO, error) {
	if !state.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shop state")
	}
	shop, err := s.loadShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.State != state {
		if err := s.repo.UpdateShopState(ctx, shop.ID, state); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop state")
		}
		shop.State = state
	}
	return stateFromShop(shop), nil
}

func (s *service) PartnerListings(ctx context.Context, shopID uuid.UUID) ([]PartnerListingDTO, error) {
	if _, err := s.loadShop(ctx, shopID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListListingsByShop(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop listings")
	}
	out := make([]PartnerListingDTO, 0, len(list))
	for i := range list {
		out = append(out, partnerListingFromModel(&list[i]))
	}
	return out, nil
}

func (s *service) loadShop(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	shop, err := s.repo.FindShopByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return shop, nil
}

func stateFromShop(shop *models.Shop) *PartnerStateDTO {
	return &PartnerStateDTO{ShopID: shop.ID, Name: shop.Name, State: shop.State}
}
