package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit-marketplace/server/internal/application"
)

// ItemHandler handles HTTP requests for item operations.
type ItemHandler struct {
	service *application.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers all item routes on the given router group.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListOwnerItems)
		items.GET("/search", h.SearchItems)
		items.GET("/:id", h.GetItem)
		items.PATCH("/:id", h.UpdateItem)
		items.POST("/:id/comment", h.AddComment)
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Add(c.Request.Context(), ownerID, req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, result)
}

// ListOwnerItems handles GET /items. Returns the caller's items with their
// last and next bookings and comments.
func (h *ItemHandler) ListOwnerItems(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.service.GetAllByOwner(c.Request.Context(), ownerID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// SearchItems handles GET /items/search?text=.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Query("text"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// GetItem handles GET /items/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid item ID")
		return
	}

	result, err := h.service.Get(c.Request.Context(), itemID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// UpdateItem handles PATCH /items/:id. Only the owner may update.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid item ID")
		return
	}

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Update(c.Request.Context(), actorID, itemID, req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// AddComment handles POST /items/:id/comment.
func (h *ItemHandler) AddComment(c *gin.Context) {
	authorID, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid item ID")
		return
	}

	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), itemID, authorID, req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}
