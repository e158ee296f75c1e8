package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareit-marketplace/server/internal/domain"
	bookingDomain "github.com/shareit-marketplace/server/internal/domain/booking"
	itemDomain "github.com/shareit-marketplace/server/internal/domain/item"
	userDomain "github.com/shareit-marketplace/server/internal/domain/user"
	"github.com/shareit-marketplace/server/internal/events"
	"github.com/shareit-marketplace/server/internal/metrics"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
	ItemID uuid.UUID  `json:"itemId" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     uuid.UUID `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Booker UserDTO   `json:"booker"`
	Item   ItemDTO   `json:"item"`
}

// EventPublisher is the outbound port for booking lifecycle events.
// Satisfied by events.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// BookingService owns the booking lifecycle and the filtered list queries.
type BookingService struct {
	bookings bookingDomain.Repository
	items    itemDomain.Repository
	users    userDomain.Repository
	clock    domain.Clock
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	items itemDomain.Repository,
	users userDomain.Repository,
	clock domain.Clock,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		clock:    clock,
		producer: producer,
		logger:   logger,
	}
}

// Create validates the requested window, runs the item availability gate and
// persists a new WAITING booking for the booker.
func (s *BookingService) Create(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := bookingDomain.ValidateWindow(req.Start, req.End, now); err != nil {
		return nil, err
	}

	itm, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := itm.CheckBookable(bookerID); err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(req.Start, req.End, itm, booker, now)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	metrics.IncBookingCreated()
	s.publishEvent(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		ItemID:     itm.ID(),
		OwnerID:    itm.OwnerID(),
		BookerID:   bookerID,
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: now,
	}, bk.ID().String())

	result := toBookingDTO(bk)
	return &result, nil
}

// Approve applies the item owner's decision to a booking. The status write
// is conditional on the status the decision was made against, so two
// concurrent decisions cannot both succeed.
func (s *BookingService) Approve(ctx context.Context, bookingID uuid.UUID, approved bool, actorID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	previous := bk.Status()
	if err := bk.Decide(approved, actorID); err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateStatus(ctx, bk.ID(), previous, bk.Status()); err != nil {
		return nil, err
	}

	eventType := events.BookingRejected
	if approved {
		eventType = events.BookingApproved
	}
	metrics.IncBookingDecided(bk.Status().String())
	s.publishEvent(ctx, eventType, events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.Item().ID(),
		OwnerID:    bk.Item().OwnerID(),
		BookerID:   bk.Booker().ID(),
		Status:     bk.Status().String(),
		OccurredAt: s.clock.Now(),
	}, bk.ID().String())

	result := toBookingDTO(bk)
	return &result, nil
}

// Get returns a booking to its booker or the item owner.
func (s *BookingService) Get(ctx context.Context, bookingID, actorID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.CanBeViewedBy(actorID) {
		return nil, domain.NewForbiddenError("a booking can only be viewed by its booker or the item owner")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetByID returns a booking without any permission check.
func (s *BookingService) GetByID(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// Delete removes a booking. Administrative use only; no guard rules.
func (s *BookingService) Delete(ctx context.Context, bookingID uuid.UUID) error {
	return s.bookings.Delete(ctx, bookingID)
}

// ListByBooker returns the booker's bookings under the given filter state.
func (s *BookingService) ListByBooker(ctx context.Context, bookerID uuid.UUID, state string, from, size *int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.ByBooker(bookerID), state, from, size)
}

// ListByItemOwner returns the bookings of all items owned by the user under
// the given filter state.
func (s *BookingService) ListByItemOwner(ctx context.Context, ownerID uuid.UUID, state string, from, size *int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.ByItemOwner(ownerID), state, from, size)
}

// list composes the filter-state query and executes it, either in one shot
// or by walking every page from the requested offset to the end of the
// result set.
func (s *BookingService) list(ctx context.Context, subject bookingDomain.Clause, state string, from, size *int) ([]BookingDTO, error) {
	filter, err := bookingDomain.ParseFilterState(state)
	if err != nil {
		return nil, err
	}
	if err := validatePagination(from, size); err != nil {
		return nil, err
	}

	q := filter.Query(subject, s.clock.Now())

	if from == nil {
		bookings, err := s.bookings.FindAll(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to list bookings: %w", err)
		}
		return toBookingDTOs(bookings), nil
	}

	var result []BookingDTO
	page := *from / *size
	for {
		bookings, hasNext, err := s.bookings.FindPage(ctx, q, page, *size)
		if err != nil {
			return nil, fmt.Errorf("failed to list bookings page %d: %w", page, err)
		}
		result = append(result, toBookingDTOs(bookings)...)
		if !hasNext {
			return result, nil
		}
		page++
	}
}

// validatePagination enforces the both-or-neither policy: from and size must
// be supplied together, with from >= 0 and size >= 1.
func validatePagination(from, size *int) error {
	if from == nil && size == nil {
		return nil
	}
	if from == nil || size == nil {
		return domain.NewValidationError("from and size must be supplied together")
	}
	if *from < 0 || *size < 1 {
		return domain.NewValidationError("invalid values for from, size parameters")
	}
	return nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, data interface{}, key string) {
	cloudEvent, err := events.NewCloudEvent("shareit-server", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:     bk.ID(),
		Start:  bk.Start(),
		End:    bk.End(),
		Status: bk.Status().String(),
		Booker: toUserDTO(bk.Booker()),
		Item:   toItemDTO(bk.Item()),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
