package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"daily-routine/internal/service"
	"daily-routine/internal/storage"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Response{Message: "Resource created successfully", Data: data})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, &Response{Message: message})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &Response{Error: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, &Response{Error: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, &Response{Error: message})
}

func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, &Response{Error: message})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, &Response{Error: message})
}

// Fail maps a service error to a response.
func Fail(c *gin.Context, err error) {
	var invalid validator.ValidationErrors
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrBlankContent),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrWaterStep):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUnknownTemplate):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.Is(err, storage.ErrCorrupt):
		log.Printf("[warn] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		InternalError(c, "stored data is corrupt")
	default:
		log.Printf("[warn] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		InternalError(c, "internal error")
	}
}
