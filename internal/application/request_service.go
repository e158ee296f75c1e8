package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareit-marketplace/server/internal/domain"
	itemDomain "github.com/shareit-marketplace/server/internal/domain/item"
	requestDomain "github.com/shareit-marketplace/server/internal/domain/request"
	userDomain "github.com/shareit-marketplace/server/internal/domain/user"
)

// CreateRequestRequest holds the description of a wished-for item.
type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// RequestDTO is the response representation of an item request, including
// the items listed in answer to it.
type RequestDTO struct {
	ID          uuid.UUID `json:"id"`
	RequesterID uuid.UUID `json:"requesterId"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Items       []ItemDTO `json:"items"`
}

// RequestService handles item requests.
type RequestService struct {
	requests requestDomain.Repository
	items    itemDomain.Repository
	users    userDomain.Repository
	clock    domain.Clock
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.Repository,
	items itemDomain.Repository,
	users userDomain.Repository,
	clock domain.Clock,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		clock:    clock,
		logger:   logger,
	}
}

// Add posts a new item request for the user.
func (s *RequestService) Add(ctx context.Context, requesterID uuid.UUID, req CreateRequestRequest) (*RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, requesterID); err != nil {
		return nil, err
	}
	r, err := requestDomain.NewRequest(requesterID, req.Description, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}
	result := toRequestDTO(r, []ItemDTO{})
	return &result, nil
}

// GetAllByUser returns the caller's own requests with their answers.
func (s *RequestService) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.FindAllByRequesterID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.withItems(ctx, requests)
}

// GetAll returns other users' requests, paginated with the same exhaustive
// page walk as booking lists. With neither from nor size the original
// returned nothing, and that behavior is kept.
func (s *RequestService) GetAll(ctx context.Context, userID uuid.UUID, from, size *int) ([]RequestDTO, error) {
	if from == nil && size == nil {
		return []RequestDTO{}, nil
	}
	if err := validatePagination(from, size); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	var all []*requestDomain.Request
	page := *from / *size
	for {
		requests, hasNext, err := s.requests.FindPageExcludingRequester(ctx, userID, page, *size)
		if err != nil {
			return nil, fmt.Errorf("failed to list requests page %d: %w", page, err)
		}
		all = append(all, requests...)
		if !hasNext {
			break
		}
		page++
	}
	return s.withItems(ctx, all)
}

// GetByID returns one request with its answers.
func (s *RequestService) GetByID(ctx context.Context, id, userID uuid.UUID) (*RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	r, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dtos, err := s.withItems(ctx, []*requestDomain.Request{r})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// withItems attaches the items answering each request, fetched in one query.
func (s *RequestService) withItems(ctx context.Context, requests []*requestDomain.Request) ([]RequestDTO, error) {
	if len(requests) == 0 {
		return []RequestDTO{}, nil
	}
	ids := make([]uuid.UUID, len(requests))
	for i, r := range requests {
		ids[i] = r.ID()
	}
	items, err := s.items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for requests: %w", err)
	}
	itemsByRequest := make(map[uuid.UUID][]ItemDTO)
	for _, itm := range items {
		if itm.RequestID() == nil {
			continue
		}
		rid := *itm.RequestID()
		itemsByRequest[rid] = append(itemsByRequest[rid], toItemDTO(itm))
	}

	dtos := make([]RequestDTO, len(requests))
	for i, r := range requests {
		answers := itemsByRequest[r.ID()]
		if answers == nil {
			answers = []ItemDTO{}
		}
		dtos[i] = toRequestDTO(r, answers)
	}
	return dtos, nil
}

func toRequestDTO(r *requestDomain.Request, items []ItemDTO) RequestDTO {
	return RequestDTO{
		ID:          r.ID(),
		RequesterID: r.RequesterID(),
		Description: r.Description(),
		Created:     r.Created(),
		Items:       items,
	}
}
