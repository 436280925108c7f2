package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
)

// ContactDTO is the transport shape of a shipping contact entry.
type ContactDTO struct {
	ID        uuid.UUID         `json:"id"`
	Type      enums.ContactType `json:"type"`
	Value     string            `json:"value"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateContactDTO holds the data needed to persist a contact entry.
type CreateContactDTO struct {
	Type  enums.ContactType
	Value string
}

func FromModel(c *models.Contact) *ContactDTO {
	if c == nil {
		return nil
	}
	return &ContactDTO{
		ID:        c.ID,
		Type:      c.Type,
		Value:     c.Value,
		CreatedAt: c.CreatedAt,
	}
}

func FromModels(list []models.Contact) []ContactDTO {
	out := make([]ContactDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
