package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareit-marketplace/server/internal/domain"
	bookingDomain "github.com/shareit-marketplace/server/internal/domain/booking"
	itemDomain "github.com/shareit-marketplace/server/internal/domain/item"
	userDomain "github.com/shareit-marketplace/server/internal/domain/user"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StartDate time.Time `gorm:"column:start_date;not null;index"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	Status    string    `gorm:"not null;size:20;index"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Item      ItemModel `gorm:"foreignKey:ItemID"`
	BookerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Booker    UserModel `gorm:"foreignKey:BookerID"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of
// booking.Repository. Query descriptors translate to WHERE/JOIN/ORDER BY.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking with its item and booker.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Booker").
		Where("bookings.id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindAll executes a query descriptor without pagination.
func (r *GormBookingRepository) FindAll(ctx context.Context, q bookingDomain.Query) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	tx, err := r.translate(r.db.WithContext(ctx), q)
	if err != nil {
		return nil, err
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to execute booking query: %w", err)
	}
	return toDomainBookings(models), nil
}

// FindPage executes one zero-indexed page of a query descriptor. One row
// beyond the page is fetched to learn whether another page follows.
func (r *GormBookingRepository) FindPage(ctx context.Context, q bookingDomain.Query, page, size int) ([]*bookingDomain.Booking, bool, error) {
	var models []BookingModel
	tx, err := r.translate(r.db.WithContext(ctx), q)
	if err != nil {
		return nil, false, err
	}
	err = tx.Offset(page * size).
		Limit(size + 1).
		Find(&models).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to execute booking page query: %w", err)
	}
	hasNext := len(models) > size
	if hasNext {
		models = models[:size]
	}
	return toDomainBookings(models), hasNext, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := &BookingModel{
		ID:        bk.ID(),
		StartDate: bk.Start(),
		EndDate:   bk.End(),
		Status:    bk.Status().String(),
		ItemID:    bk.Item().ID(),
		BookerID:  bk.Booker().ID(),
	}
	if err := r.db.WithContext(ctx).Omit("Item", "Booker").Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// UpdateStatus writes the new status only if the row still carries the
// status the caller read, so concurrent decisions cannot both win.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to bookingDomain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// Delete removes a booking by id.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&BookingModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

// --- Query translation ---

// bookingColumns maps query fields to SQL columns. The item-owner field
// lives on the joined items table.
var bookingColumns = map[bookingDomain.Field]string{
	bookingDomain.FieldStart:       "bookings.start_date",
	bookingDomain.FieldEnd:         "bookings.end_date",
	bookingDomain.FieldStatus:      "bookings.status",
	bookingDomain.FieldBookerID:    "bookings.booker_id",
	bookingDomain.FieldItemID:      "bookings.item_id",
	bookingDomain.FieldItemOwnerID: "items.owner_id",
}

// translate turns a query descriptor into a gorm chain with WHERE clauses,
// the items join when the owner field is referenced, the ORDER BY, and the
// item/booker preloads.
func (r *GormBookingRepository) translate(tx *gorm.DB, q bookingDomain.Query) (*gorm.DB, error) {
	tx = tx.Model(&BookingModel{}).Preload("Item").Preload("Booker")

	needsJoin := false
	for _, c := range q.Clauses {
		if c.Field == bookingDomain.FieldItemOwnerID {
			needsJoin = true
		}
	}
	if needsJoin {
		tx = tx.Joins("JOIN items ON items.id = bookings.item_id")
	}

	for _, c := range q.Clauses {
		column, ok := bookingColumns[c.Field]
		if !ok {
			return nil, fmt.Errorf("unknown booking query field: %s", c.Field)
		}
		value := c.Value
		if status, ok := value.(bookingDomain.Status); ok {
			value = status.String()
		}
		switch c.Op {
		case bookingDomain.OpEq:
			tx = tx.Where(column+" = ?", value)
		case bookingDomain.OpBefore:
			tx = tx.Where(column+" < ?", value)
		case bookingDomain.OpAfter:
			tx = tx.Where(column+" > ?", value)
		case bookingDomain.OpIn:
			tx = tx.Where(column+" IN ?", value)
		default:
			return nil, fmt.Errorf("unknown booking query operator: %s", c.Op)
		}
	}

	sortColumn, ok := bookingColumns[q.Sort.Field]
	if !ok {
		return nil, fmt.Errorf("unknown booking sort field: %s", q.Sort.Field)
	}
	direction := "DESC"
	if q.Sort.Ascending {
		direction = "ASC"
	}
	return tx.Order(sortColumn + " " + direction), nil
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		// Unreachable with a consistent store; fall back to the raw value.
		status = bookingDomain.Status(m.Status)
	}
	itm := itemDomain.Reconstruct(
		m.Item.ID,
		m.Item.OwnerID,
		m.Item.Name,
		m.Item.Description,
		m.Item.Available,
		m.Item.RequestID,
	)
	booker := userDomain.Reconstruct(m.Booker.ID, m.Booker.Name, m.Booker.Email)
	return bookingDomain.Reconstruct(m.ID, m.StartDate, m.EndDate, itm, booker, status)
}

func toDomainBookings(models []BookingModel) []*bookingDomain.Booking {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toDomainBooking(&m)
	}
	return bookings
}
