package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shareit-marketplace/server/internal/domain"
)

// Success writes a 200 response with the payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 response with the payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// BadRequest writes a 400 response with an error message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Error maps a domain error kind to its HTTP status. Permission failures on
// bookings surface as 404 rather than 403: the resource is treated as
// unavailable to the caller.
func Error(c *gin.Context, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindUnsupportedStatus:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.KindNotFound, domain.KindForbidden:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
