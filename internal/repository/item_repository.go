package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareit-marketplace/server/internal/domain"
	itemDomain "github.com/shareit-marketplace/server/internal/domain/item"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	Name        string     `gorm:"not null;size:255"`
	Description string     `gorm:"not null;size:2000"`
	Available   bool       `gorm:"not null"`
	RequestID   *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemRepository is the GORM-based implementation of item.Repository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID retrieves an item by id.
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("item", id)
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toDomainItem(&model), nil
}

// FindAllByOwnerID retrieves the items listed by an owner.
func (r *GormItemRepository) FindAllByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by owner: %w", err)
	}
	return toDomainItems(models), nil
}

// FindByRequestIDs retrieves items listed in answer to any of the requests.
func (r *GormItemRepository) FindByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) ([]*itemDomain.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	var models []ItemModel
	if err := r.db.WithContext(ctx).Where("request_id IN ?", requestIDs).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by request: %w", err)
	}
	return toDomainItems(models), nil
}

// SearchByText matches name or description case-insensitively among
// available items.
func (r *GormItemRepository) SearchByText(ctx context.Context, text string) ([]*itemDomain.Item, error) {
	pattern := "%" + text + "%"
	var models []ItemModel
	err := r.db.WithContext(ctx).
		Where("available = true AND (name ILIKE ? OR description ILIKE ?)", pattern, pattern).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toDomainItems(models), nil
}

// Save persists a new item.
func (r *GormItemRepository) Save(ctx context.Context, itm *itemDomain.Item) error {
	if err := r.db.WithContext(ctx).Create(toItemModel(itm)).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

// Update persists changes to an existing item.
func (r *GormItemRepository) Update(ctx context.Context, itm *itemDomain.Item) error {
	model := toItemModel(itm)
	err := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"available":   model.Available,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func toItemModel(itm *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          itm.ID(),
		OwnerID:     itm.OwnerID(),
		Name:        itm.Name(),
		Description: itm.Description(),
		Available:   itm.Available(),
		RequestID:   itm.RequestID(),
	}
}

func toDomainItem(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(m.ID, m.OwnerID, m.Name, m.Description, m.Available, m.RequestID)
}

func toDomainItems(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i, m := range models {
		items[i] = toDomainItem(&m)
	}
	return items
}
