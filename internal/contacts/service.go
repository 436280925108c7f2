package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
)

// A user keeps a short address book, not a CRM.
const maxContactsPerUser = 20

type contactRepo interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Contact, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service exposes contact book operations scoped to the owning user.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateContactDTO) (*ContactDTO, error)
	Delete(ctx context.Context, userID, contactID uuid.UUID) error
}

type service struct {
	repo contactRepo
}

// NewService builds a contacts service backed by the provided repository.
func NewService(repo contactRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contacts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contacts")
	}
	return FromModels(list), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateContactDTO) (*ContactDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact type")
	}
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact value is required")
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count contacts")
	}
	if count >= maxContactsPerUser {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "contact limit reached")
	}

	created, err := s.repo.Create(ctx, &models.Contact{
		UserID: userID,
		Type:   input.Type,
		Value:  value,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact")
	}
	return FromModel(created), nil
}

func (s *service) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	if userID == uuid.Nil || contactID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and contact id are required")
	}
	if err := s.repo.Delete(ctx, contactID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contact")
	}
	return nil
}
