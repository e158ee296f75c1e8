package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/shareit-marketplace/server/internal/domain"
	"github.com/shareit-marketplace/server/internal/domain/item"
	"github.com/shareit-marketplace/server/internal/domain/user"
)

// Booking is the aggregate root for one reservation of an item over a time
// interval. It references its item and booker but owns neither.
type Booking struct {
	id     uuid.UUID
	start  time.Time
	end    time.Time
	item   *item.Item
	booker *user.User
	status Status
}

// ValidateWindow checks the requested interval: both bounds present, neither
// in the past, start strictly before end. It runs before the availability
// gate so that a malformed window is reported ahead of item problems.
func ValidateWindow(start, end *time.Time, now time.Time) error {
	if start == nil || end == nil {
		return domain.NewValidationError("booking start and end are required")
	}
	if start.Before(now) {
		return domain.NewValidationError("booking start must not be in the past")
	}
	if end.Before(now) {
		return domain.NewValidationError("booking end must not be in the past")
	}
	if !start.Before(*end) {
		return domain.NewValidationError("booking start must be before its end")
	}
	return nil
}

// NewBooking creates a booking in status WAITING after validating the time
// window against "now", which the caller evaluates once per operation.
func NewBooking(start, end *time.Time, itm *item.Item, booker *user.User, now time.Time) (*Booking, error) {
	if err := ValidateWindow(start, end, now); err != nil {
		return nil, err
	}
	return &Booking{
		id:     uuid.New(),
		start:  *start,
		end:    *end,
		item:   itm,
		booker: booker,
		status: StatusWaiting,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(id uuid.UUID, start, end time.Time, itm *item.Item, booker *user.User, status Status) *Booking {
	return &Booking{
		id:     id,
		start:  start,
		end:    end,
		item:   itm,
		booker: booker,
		status: status,
	}
}

func (b *Booking) ID() uuid.UUID { return b.id }
func (b *Booking) Start() time.Time { return b.start }
func (b *Booking) End() time.Time { return b.end }
func (b *Booking) Item() *item.Item { return b.item }
func (b *Booking) Booker() *user.User { return b.booker }
func (b *Booking) Status() Status { return b.status }

// Decide applies the owner's approval or rejection. Only the item owner may
// decide, and deciding the same outcome twice is an error; flipping an
// earlier decision is allowed.
func (b *Booking) Decide(approved bool, actorID uuid.UUID) error {
	if b.item.OwnerID() != actorID {
		return domain.NewForbiddenError("only the item owner can approve or reject a booking")
	}
	target := StatusRejected
	if approved {
		target = StatusApproved
	}
	if b.status == target {
		return domain.NewValidationError("booking status already changed")
	}
	b.status = target
	return nil
}

// CanBeViewedBy reports whether the user is the booker or the item owner.
func (b *Booking) CanBeViewedBy(userID uuid.UUID) bool {
	return b.booker.ID() == userID || b.item.OwnerID() == userID
}
