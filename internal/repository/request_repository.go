package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareit-marketplace/server/internal/domain"
	requestDomain "github.com/shareit-marketplace/server/internal/domain/request"
)

// RequestModel is the GORM model for the item_requests table.
type RequestModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID `gorm:"type:uuid;index;not null"`
	Description string    `gorm:"not null;size:2000"`
	Created     time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (RequestModel) TableName() string {
	return "item_requests"
}

// GormRequestRepository is the GORM-based implementation of
// request.Repository.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository.
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByID retrieves a request by id.
func (r *GormRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*requestDomain.Request, error) {
	var model RequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("request", id)
		}
		return nil, fmt.Errorf("failed to find request by ID: %w", err)
	}
	return toDomainRequest(&model), nil
}

// FindAllByRequesterID retrieves the caller's own requests, newest first.
func (r *GormRequestRepository) FindAllByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*requestDomain.Request, error) {
	var models []RequestModel
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find requests by requester: %w", err)
	}
	return toDomainRequests(models), nil
}

// FindPageExcludingRequester retrieves one page of other users' requests,
// newest first. One row beyond the page is fetched to learn whether another
// page follows.
func (r *GormRequestRepository) FindPageExcludingRequester(ctx context.Context, requesterID uuid.UUID, page, size int) ([]*requestDomain.Request, bool, error) {
	var models []RequestModel
	err := r.db.WithContext(ctx).
		Where("requester_id <> ?", requesterID).
		Order("created DESC").
		Offset(page * size).
		Limit(size + 1).
		Find(&models).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to find requests page: %w", err)
	}
	hasNext := len(models) > size
	if hasNext {
		models = models[:size]
	}
	return toDomainRequests(models), hasNext, nil
}

// Save persists a new request.
func (r *GormRequestRepository) Save(ctx context.Context, req *requestDomain.Request) error {
	model := &RequestModel{
		ID:          req.ID(),
		RequesterID: req.RequesterID(),
		Description: req.Description(),
		Created:     req.Created(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

func toDomainRequest(m *RequestModel) *requestDomain.Request {
	return requestDomain.Reconstruct(m.ID, m.RequesterID, m.Description, m.Created)
}

func toDomainRequests(models []RequestModel) []*requestDomain.Request {
	requests := make([]*requestDomain.Request, len(models))
	for i, m := range models {
		requests[i] = toDomainRequest(&m)
	}
	return requests
}
