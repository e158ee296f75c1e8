package item

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shareit-marketplace/server/internal/domain"
)

// Item is the aggregate root for a listed item.
type Item struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	name        string
	description string
	available   bool
	requestID   *uuid.UUID
}

// NewItem creates a new listed item with validated fields.
func NewItem(ownerID uuid.UUID, name, description string, available bool, requestID *uuid.UUID) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("item name is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, domain.NewValidationError("item description is required")
	}
	return &Item{
		id:          uuid.New(),
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(id, ownerID uuid.UUID, name, description string, available bool, requestID *uuid.UUID) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
	}
}

func (i *Item) ID() uuid.UUID { return i.id }
func (i *Item) OwnerID() uuid.UUID { return i.ownerID }
func (i *Item) Name() string { return i.name }
func (i *Item) Description() string { return i.description }
func (i *Item) Available() bool { return i.available }
func (i *Item) RequestID() *uuid.UUID { return i.requestID }

// ApplyPatch overlays non-blank fields from a partial update. Only the
// current owner may change an item.
func (i *Item) ApplyPatch(actorID uuid.UUID, name, description string, available *bool) error {
	if i.ownerID != actorID {
		return domain.NewForbiddenError("only the item owner can update the item")
	}
	if strings.TrimSpace(name) != "" {
		i.name = name
	}
	if strings.TrimSpace(description) != "" {
		i.description = description
	}
	if available != nil {
		i.available = *available
	}
	return nil
}

// CheckBookable is the availability gate consulted during booking creation:
// the requester must not own the item and the item must be marked available.
func (i *Item) CheckBookable(requesterID uuid.UUID) error {
	if i.ownerID == requesterID {
		return domain.NewForbiddenError("the item owner cannot book their own item")
	}
	if !i.available {
		return domain.NewValidationError("item with id = %s is not available for booking", i.id)
	}
	return nil
}
