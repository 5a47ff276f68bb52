package api

import (
	"github.com/gin-gonic/gin"

	"daily-routine/internal/service"
)

func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	user, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, gin.H{"id": user.ID, "name": user.Name, "profile": user.ProfileKey()})
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	user, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": user.ID, "name": user.Name, "profile": user.ProfileKey()})
}
