package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareit-marketplace/server/internal/domain"
	bookingDomain "github.com/shareit-marketplace/server/internal/domain/booking"
	itemDomain "github.com/shareit-marketplace/server/internal/domain/item"
	userDomain "github.com/shareit-marketplace/server/internal/domain/user"
)

// CreateItemRequest holds the data needed to list an item.
type CreateItemRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Available   *bool      `json:"available" binding:"required"`
	RequestID   *uuid.UUID `json:"requestId"`
}

// UpdateItemRequest is a partial update; blank/nil fields keep old values.
type UpdateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// CreateCommentRequest holds a comment on an item.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemDTO is the response representation of an item.
type ItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Available   bool       `json:"available"`
	RequestID   *uuid.UUID `json:"requestId,omitempty"`
}

// BookingSummaryDTO is the short booking form embedded in item detail views.
type BookingSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentDTO is the response representation of an item comment.
type CommentDTO struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDetailDTO is an item enriched with its comments and, from the approved
// bookings, the derived last/next booking.
type ItemDetailDTO struct {
	ItemDTO
	LastBooking *BookingSummaryDTO `json:"lastBooking"`
	NextBooking *BookingSummaryDTO `json:"nextBooking"`
	Comments    []CommentDTO       `json:"comments"`
}

// ItemService handles item CRUD, search, comments and the booking-summary
// enrichment of item views.
type ItemService struct {
	items    itemDomain.Repository
	users    userDomain.Repository
	bookings bookingDomain.Repository
	comments itemDomain.CommentRepository
	clock    domain.Clock
	logger   *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.Repository,
	users userDomain.Repository,
	bookings bookingDomain.Repository,
	comments itemDomain.CommentRepository,
	clock domain.Clock,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		clock:    clock,
		logger:   logger,
	}
}

// Add lists a new item for the owner.
func (s *ItemService) Add(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	available := req.Available != nil && *req.Available
	itm, err := itemDomain.NewItem(ownerID, req.Name, req.Description, available, req.RequestID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, itm); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}
	result := toItemDTO(itm)
	return &result, nil
}

// Update overlays the non-blank fields of the patch onto the stored item.
// Only the owner may update.
func (s *ItemService) Update(ctx context.Context, actorID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, err
	}
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := itm.ApplyPatch(actorID, req.Name, req.Description, req.Available); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, itm); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	result := toItemDTO(itm)
	return &result, nil
}

// Get returns one item enriched with comments and last/next booking.
func (s *ItemService) Get(ctx context.Context, itemID uuid.UUID) (*ItemDetailDTO, error) {
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	details, err := s.enrich(ctx, []*itemDomain.Item{itm})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// GetAllByOwner returns the owner's items, each enriched with comments and
// last/next booking. Comments and bookings are fetched in one query each.
func (s *ItemService) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]ItemDetailDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.items.FindAllByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return s.enrich(ctx, items)
}

// Search returns available items whose name or description matches the text.
// Blank text yields an empty list, not an error.
func (s *ItemService) Search(ctx context.Context, text string) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}
	items, err := s.items.SearchByText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	dtos := make([]ItemDTO, len(items))
	for i, itm := range items {
		dtos[i] = toItemDTO(itm)
	}
	return dtos, nil
}

// AddComment stores a comment by a user who has a finished booking of the
// item. Eligibility is checked with a clause query over past bookings.
func (s *ItemService) AddComment(ctx context.Context, itemID, authorID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	finished, err := s.bookings.FindAll(ctx, bookingDomain.FinishedByBookerForItem(authorID, itemID, now))
	if err != nil {
		return nil, fmt.Errorf("failed to check comment eligibility: %w", err)
	}
	if len(finished) == 0 {
		return nil, domain.NewValidationError("user with id = %s has not rented item with id = %s", authorID, itm.ID())
	}

	comment, err := itemDomain.NewComment(itemID, authorID, author.Name(), req.Text, now)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	result := toCommentDTO(comment)
	return &result, nil
}

// enrich attaches comments and booking summaries to the given items, with a
// single "now" for all summary derivations.
func (s *ItemService) enrich(ctx context.Context, items []*itemDomain.Item) ([]ItemDetailDTO, error) {
	ids := make([]uuid.UUID, len(items))
	for i, itm := range items {
		ids[i] = itm.ID()
	}

	comments, err := s.comments.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	commentsByItem := make(map[uuid.UUID][]CommentDTO)
	for _, c := range comments {
		commentsByItem[c.ItemID()] = append(commentsByItem[c.ItemID()], toCommentDTO(c))
	}

	approved, err := s.bookings.FindAll(ctx, bookingDomain.ApprovedForItems(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load approved bookings: %w", err)
	}
	bookingsByItem := make(map[uuid.UUID][]*bookingDomain.Booking)
	for _, b := range approved {
		bookingsByItem[b.Item().ID()] = append(bookingsByItem[b.Item().ID()], b)
	}

	now := s.clock.Now()
	details := make([]ItemDetailDTO, len(items))
	for i, itm := range items {
		summary := bookingDomain.Summarize(bookingsByItem[itm.ID()], now)
		itemComments := commentsByItem[itm.ID()]
		if itemComments == nil {
			itemComments = []CommentDTO{}
		}
		details[i] = ItemDetailDTO{
			ItemDTO:     toItemDTO(itm),
			LastBooking: toBookingSummaryDTO(summary.Last),
			NextBooking: toBookingSummaryDTO(summary.Next),
			Comments:    itemComments,
		}
	}
	return details, nil
}

func toItemDTO(itm *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          itm.ID(),
		OwnerID:     itm.OwnerID(),
		Name:        itm.Name(),
		Description: itm.Description(),
		Available:   itm.Available(),
		RequestID:   itm.RequestID(),
	}
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.AuthorName(),
		Created:    c.Created(),
	}
}

func toBookingSummaryDTO(b *bookingDomain.Booking) *BookingSummaryDTO {
	if b == nil {
		return nil
	}
	return &BookingSummaryDTO{
		ID:       b.ID(),
		BookerID: b.Booker().ID(),
		Start:    b.Start(),
		End:      b.End(),
	}
}
