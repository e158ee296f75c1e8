package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit-marketplace/server/internal/application"
)

// RequestHandler handles HTTP requests for item-request operations.
type RequestHandler struct {
	service *application.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *application.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers all item-request routes on the given router group.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListOwnRequests)
		requests.GET("/all", h.ListOtherRequests)
		requests.GET("/:id", h.GetRequest)
	}
}

// CreateRequest handles POST /requests.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	requesterID, ok := currentUser(c)
	if !ok {
		return
	}

	var req application.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Add(c.Request.Context(), requesterID, req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, result)
}

// ListOwnRequests handles GET /requests. Returns the caller's requests with
// the items offered in answer to each.
func (h *RequestHandler) ListOwnRequests(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.service.GetAllByUser(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// ListOtherRequests handles GET /requests/all?from=&size=. Returns requests
// created by other users, paged.
func (h *RequestHandler) ListOtherRequests(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	from, ok := optionalIntQuery(c, "from")
	if !ok {
		return
	}
	size, ok := optionalIntQuery(c, "size")
	if !ok {
		return
	}

	result, err := h.service.GetAll(c.Request.Context(), userID, from, size)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// GetRequest handles GET /requests/:id.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid request ID")
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), requestID, userID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}
