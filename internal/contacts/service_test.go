package contacts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
)

type stubContactRepo struct {
	contacts  []models.Contact
	createErr error
}

func (s *stubContactRepo) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	contact.ID = uuid.New()
	s.contacts = append(s.contacts, *contact)
	return contact, nil
}

func (s *stubContactRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Contact, error) {
	var out []models.Contact
	for _, c := range s.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubContactRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	for i, c := range s.contacts {
		if c.ID == id && c.UserID == userID {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubContactRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, c := range s.contacts {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func TestCreateAndListContacts(t *testing.T) {
	repo := &stubContactRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, CreateContactDTO{Type: enums.ContactTypePhone, Value: " +7 999 111-22-33 "})
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}
	if created.Value != "+7 999 111-22-33" {
		t.Fatalf("expected trimmed value, got %q", created.Value)
	}

	list, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list contacts: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(list))
	}

	other, err := svc.List(ctx, uuid.New())
	if err != nil {
		t.Fatalf("list contacts for other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty list for other user, got %d", len(other))
	}
}

func TestCreateContactValidation(t *testing.T) {
	repo := &stubContactRepo{}
	svc, _ := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Create(ctx, userID, CreateContactDTO{Type: "pager", Value: "x"}); err == nil {
		t.Fatal("expected invalid type error")
	}
	if _, err := svc.Create(ctx, userID, CreateContactDTO{Type: enums.ContactTypeAddress, Value: "  "}); err == nil {
		t.Fatal("expected empty value error")
	}
}

func TestContactLimit(t *testing.T) {
	repo := &stubContactRepo{}
	svc, _ := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()

	for i := 0; i < maxContactsPerUser; i++ {
		if _, err := svc.Create(ctx, userID, CreateContactDTO{Type: enums.ContactTypePhone, Value: "+7 900 000-00-00"}); err != nil {
			t.Fatalf("create contact %d: %v", i, err)
		}
	}

	_, err := svc.Create(ctx, userID, CreateContactDTO{Type: enums.ContactTypePhone, Value: "+7 900 000-00-01"})
	if err == nil {
		t.Fatal("expected contact limit error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestDeleteContactNotFound(t *testing.T) {
	repo := &stubContactRepo{}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}
