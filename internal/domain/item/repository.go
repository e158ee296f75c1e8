package item

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for items.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindAllByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Item, error)
	// FindByRequestIDs returns the items listed in answer to any of the
	// given requests.
	FindByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) ([]*Item, error)
	// SearchByText matches name or description case-insensitively among
	// available items.
	SearchByText(ctx context.Context, text string) ([]*Item, error)
	Save(ctx context.Context, i *Item) error
	Update(ctx context.Context, i *Item) error
}

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	// FindByItemIDs returns comments for the given items, newest first.
	FindByItemIDs(ctx context.Context, itemIDs []uuid.UUID) ([]*Comment, error)
	Save(ctx context.Context, c *Comment) error
}
