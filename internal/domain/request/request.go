package request

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shareit-marketplace/server/internal/domain"
)

// Request is a wish posted by a user describing an item they would like
// someone to list.
type Request struct {
	id          uuid.UUID
	requesterID uuid.UUID
	description string
	created     time.Time
}

// NewRequest creates a new item request.
func NewRequest(requesterID uuid.UUID, description string, created time.Time) (*Request, error) {
	if requesterID == uuid.Nil {
		return nil, domain.NewValidationError("requester ID is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, domain.NewValidationError("request description is required")
	}
	return &Request{
		id:          uuid.New(),
		requesterID: requesterID,
		description: description,
		created:     created,
	}, nil
}

// Reconstruct rebuilds a Request from persistence data (no validation).
func Reconstruct(id, requesterID uuid.UUID, description string, created time.Time) *Request {
	return &Request{
		id:          id,
		requesterID: requesterID,
		description: description,
		created:     created,
	}
}

func (r *Request) ID() uuid.UUID { return r.id }
func (r *Request) RequesterID() uuid.UUID { return r.requesterID }
func (r *Request) Description() string { return r.description }
func (r *Request) Created() time.Time { return r.created }
