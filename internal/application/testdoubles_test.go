package application

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shareit-marketplace/server/internal/domain"
	bookingDomain "github.com/shareit-marketplace/server/internal/domain/booking"
	itemDomain "github.com/shareit-marketplace/server/internal/domain/item"
	requestDomain "github.com/shareit-marketplace/server/internal/domain/request"
	userDomain "github.com/shareit-marketplace/server/internal/domain/user"
	"github.com/shareit-marketplace/server/internal/events"
)

// The fakes below back the service tests without a database. The booking
// fake evaluates Query descriptors with the in-memory Matches form, so the
// filter semantics under test are the same ones the SQL translation encodes.

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

// copyBooking snapshots a booking so callers cannot mutate the stored state,
// mirroring how a real repository rehydrates rows.
func copyBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(b.ID(), b.Start(), b.End(), b.Item(), b.Booker(), b.Status())
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id)
	}
	return copyBooking(b), nil
}

func (r *memBookingRepo) matching(q bookingDomain.Query) []*bookingDomain.Booking {
	var result []*bookingDomain.Booking
	for _, b := range r.bookings {
		if q.Matches(b) {
			result = append(result, copyBooking(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if q.Sort.Ascending {
			return result[i].Start().Before(result[j].Start())
		}
		return result[j].Start().Before(result[i].Start())
	})
	return result
}

func (r *memBookingRepo) FindAll(_ context.Context, q bookingDomain.Query) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matching(q), nil
}

func (r *memBookingRepo) FindPage(_ context.Context, q bookingDomain.Query, page, size int) ([]*bookingDomain.Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.matching(q)
	offset := page * size
	if offset >= len(all) {
		return nil, false, nil
	}
	end := offset + size
	hasNext := end < len(all)
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], hasNext, nil
}

func (r *memBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID()] = copyBooking(b)
	return nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to bookingDomain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status() != from {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[id] = bookingDomain.Reconstruct(b.ID(), b.Start(), b.End(), b.Item(), b.Booker(), to)
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userDomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}
	return u, nil
}

func (r *memUserRepo) FindAll(_ context.Context) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*userDomain.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, u)
	}
	return result, nil
}

func (r *memUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return domain.NewConflictError("email is already in use")
		}
	}
	r.users[u.ID()] = u
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.ID() != u.ID() && existing.Email() == u.Email() {
			return domain.NewConflictError("email is already in use")
		}
	}
	if _, ok := r.users[u.ID()]; !ok {
		return domain.NewNotFoundError("user", u.ID())
	}
	r.users[u.ID()] = u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*itemDomain.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]*itemDomain.Item)}
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	itm, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("item", id)
	}
	return itm, nil
}

func (r *memItemRepo) FindAllByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*itemDomain.Item
	for _, itm := range r.items {
		if itm.OwnerID() == ownerID {
			result = append(result, itm)
		}
	}
	return result, nil
}

func (r *memItemRepo) FindByRequestIDs(_ context.Context, requestIDs []uuid.UUID) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*itemDomain.Item
	for _, itm := range r.items {
		if itm.RequestID() == nil {
			continue
		}
		for _, id := range requestIDs {
			if *itm.RequestID() == id {
				result = append(result, itm)
				break
			}
		}
	}
	return result, nil
}

func (r *memItemRepo) SearchByText(_ context.Context, text string) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(text)
	var result []*itemDomain.Item
	for _, itm := range r.items {
		if !itm.Available() {
			continue
		}
		if strings.Contains(strings.ToLower(itm.Name()), needle) ||
			strings.Contains(strings.ToLower(itm.Description()), needle) {
			result = append(result, itm)
		}
	}
	return result, nil
}

func (r *memItemRepo) Save(_ context.Context, itm *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[itm.ID()] = itm
	return nil
}

func (r *memItemRepo) Update(_ context.Context, itm *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itm.ID()]; !ok {
		return domain.NewNotFoundError("item", itm.ID())
	}
	r.items[itm.ID()] = itm
	return nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments []*itemDomain.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{}
}

func (r *memCommentRepo) FindByItemIDs(_ context.Context, itemIDs []uuid.UUID) ([]*itemDomain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*itemDomain.Comment
	for _, c := range r.comments {
		for _, id := range itemIDs {
			if c.ItemID() == id {
				result = append(result, c)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[j].Created().Before(result[i].Created())
	})
	return result, nil
}

func (r *memCommentRepo) Save(_ context.Context, c *itemDomain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, c)
	return nil
}

type memRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*requestDomain.Request
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[uuid.UUID]*requestDomain.Request)}
}

func (r *memRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*requestDomain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.NewNotFoundError("request", id)
	}
	return req, nil
}

func (r *memRequestRepo) sortedDesc(include func(*requestDomain.Request) bool) []*requestDomain.Request {
	var result []*requestDomain.Request
	for _, req := range r.requests {
		if include(req) {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[j].Created().Before(result[i].Created())
	})
	return result
}

func (r *memRequestRepo) FindAllByRequesterID(_ context.Context, requesterID uuid.UUID) ([]*requestDomain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedDesc(func(req *requestDomain.Request) bool {
		return req.RequesterID() == requesterID
	}), nil
}

func (r *memRequestRepo) FindPageExcludingRequester(_ context.Context, requesterID uuid.UUID, page, size int) ([]*requestDomain.Request, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sortedDesc(func(req *requestDomain.Request) bool {
		return req.RequesterID() != requesterID
	})
	offset := page * size
	if offset >= len(all) {
		return nil, false, nil
	}
	end := offset + size
	hasNext := end < len(all)
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], hasNext, nil
}

func (r *memRequestRepo) Save(_ context.Context, req *requestDomain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID()] = req
	return nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CloudEvent
	topics []string
	keys   []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event events.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) published() []events.CloudEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.CloudEvent(nil), p.events...)
}
