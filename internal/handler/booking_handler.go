package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit-marketplace/server/internal/application"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
	users   *application.UserService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, users *application.UserService) *BookingHandler {
	return &BookingHandler{service: service, users: users}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.PATCH("/:id", h.DecideBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("", h.ListBookerBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	bookerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), bookerID, req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// DecideBooking handles PATCH /bookings/:id?approved=true|false. Only the
// owner of the booked item may decide.
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid booking ID")
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		BadRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.Approve(c.Request.Context(), bookingID, approved, actorID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// GetBooking handles GET /bookings/:id. Visible to the booker and to the
// owner of the booked item.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.Get(c.Request.Context(), bookingID, actorID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// ListBookerBookings handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListBookerBookings(c *gin.Context) {
	h.list(c, h.service.ListByBooker)
}

// ListOwnerBookings handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	h.list(c, h.service.ListByItemOwner)
}

func (h *BookingHandler) list(c *gin.Context, query func(ctx context.Context, subjectID uuid.UUID, state string, from, size *int) ([]application.BookingDTO, error)) {
	subjectID, ok := currentUser(c)
	if !ok {
		return
	}

	// The subject must exist even when the result would be empty.
	if _, err := h.users.Get(c.Request.Context(), subjectID); err != nil {
		Error(c, err)
		return
	}

	state := c.DefaultQuery("state", "ALL")
	from, ok := optionalIntQuery(c, "from")
	if !ok {
		return
	}
	size, ok := optionalIntQuery(c, "size")
	if !ok {
		return
	}

	result, err := query(c.Request.Context(), subjectID, state, from, size)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}
