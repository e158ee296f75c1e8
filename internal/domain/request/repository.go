package request

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for item requests.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)
	// FindAllByRequesterID returns the caller's own requests, newest first.
	FindAllByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*Request, error)
	// FindPageExcludingRequester returns one page of other users' requests,
	// newest first, and whether another page follows.
	FindPageExcludingRequester(ctx context.Context, requesterID uuid.UUID, page, size int) ([]*Request, bool, error)
	Save(ctx context.Context, r *Request) error
}
