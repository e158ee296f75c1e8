package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	itemDomain "github.com/shareit-marketplace/server/internal/domain/item"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID     uuid.UUID `gorm:"type:uuid;index;not null"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null"`
	AuthorName string    `gorm:"not null;size:255"`
	Text       string    `gorm:"not null;size:2000"`
	Created    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "comments"
}

// GormCommentRepository is the GORM-based implementation of
// item.CommentRepository.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByItemIDs retrieves comments for the given items, newest first.
func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []uuid.UUID) ([]*itemDomain.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var models []CommentModel
	err := r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Order("created DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	comments := make([]*itemDomain.Comment, len(models))
	for i, m := range models {
		comments[i] = itemDomain.ReconstructComment(m.ID, m.ItemID, m.AuthorID, m.AuthorName, m.Text, m.Created)
	}
	return comments, nil
}

// Save persists a new comment.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) error {
	model := &CommentModel{
		ID:         c.ID(),
		ItemID:     c.ItemID(),
		AuthorID:   c.AuthorID(),
		AuthorName: c.AuthorName(),
		Text:       c.Text(),
		Created:    c.Created(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}
