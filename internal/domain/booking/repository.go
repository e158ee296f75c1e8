package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for bookings. FindAll and
// FindPage execute a Query descriptor; everything else is plain CRUD.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindAll returns every booking matching the query, ordered by its sort.
	FindAll(ctx context.Context, q Query) ([]*Booking, error)

	// FindPage returns one page of the query result and whether another
	// page follows. Pages are zero-indexed.
	FindPage(ctx context.Context, q Query, page, size int) ([]*Booking, bool, error)

	Save(ctx context.Context, b *Booking) error

	// UpdateStatus transitions a booking's status with a conditional write:
	// the row is only updated if it still carries the status the caller
	// read. A lost race surfaces as a conflict error.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error

	Delete(ctx context.Context, id uuid.UUID) error
}
