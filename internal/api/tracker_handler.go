package api

import (
	"github.com/gin-gonic/gin"

	"daily-routine/internal/model"
)

func (h *Handler) GetMood(c *gin.Context) {
	mood, found, err := h.Trackers.MoodFor(c.Request.Context(), profile(c), h.date(c))
	if err != nil {
		Fail(c, err)
		return
	}
	if !found {
		NotFound(c, "no mood recorded")
		return
	}
	Success(c, mood)
}

func (h *Handler) SaveMood(c *gin.Context) {
	var req struct {
		Mood  model.MoodKind `json:"mood" binding:"required"`
		Notes string         `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	mood, err := h.Trackers.SaveMood(c.Request.Context(), profile(c), h.date(c), req.Mood, req.Notes)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, mood)
}

func (h *Handler) GetJournal(c *gin.Context) {
	entry, found, err := h.Trackers.JournalFor(c.Request.Context(), profile(c), h.date(c))
	if err != nil {
		Fail(c, err)
		return
	}
	if !found {
		NotFound(c, "no journal entry")
		return
	}
	Success(c, entry)
}

func (h *Handler) SaveJournal(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	entry, err := h.Trackers.SaveJournal(c.Request.Context(), profile(c), h.date(c), req.Content)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, entry)
}

func (h *Handler) GetWater(c *gin.Context) {
	water, err := h.Trackers.Water(c.Request.Context(), profile(c), h.date(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, water)
}

// AdjustWater adds (delta 1) or removes (delta -1) one glass; a missing delta
// counts as 1.
func (h *Handler) AdjustWater(c *gin.Context) {
	var req struct {
		Delta *int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}
	water, err := h.Trackers.AdjustWater(c.Request.Context(), profile(c), h.date(c), delta)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, water)
}

func (h *Handler) GetHealth(c *gin.Context) {
	snap, err := h.Trackers.Health(c.Request.Context(), profile(c), h.date(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, snap)
}

func (h *Handler) SaveHealth(c *gin.Context) {
	var snap model.HealthSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	saved, err := h.Trackers.SaveHealth(c.Request.Context(), profile(c), h.date(c), snap)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, saved)
}

func (h *Handler) GetFocus(c *gin.Context) {
	focus, found, err := h.Trackers.Focus(c.Request.Context(), profile(c), h.date(c))
	if err != nil {
		Fail(c, err)
		return
	}
	if !found {
		NotFound(c, "no focus set")
		return
	}
	Success(c, focus)
}

func (h *Handler) SetFocus(c *gin.Context) {
	var req struct {
		Task string `json:"task"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	focus, err := h.Trackers.SetFocus(c.Request.Context(), profile(c), h.date(c), req.Task)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, focus)
}

func (h *Handler) ToggleFocus(c *gin.Context) {
	focus, ok, err := h.Trackers.ToggleFocus(c.Request.Context(), profile(c), h.date(c))
	if err != nil {
		Fail(c, err)
		return
	}
	if !ok {
		NotFound(c, "no focus set")
		return
	}
	Success(c, focus)
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.Trackers.Settings(c.Request.Context(), profile(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, settings)
}

func (h *Handler) SaveSettings(c *gin.Context) {
	var settings model.NotificationSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	saved, err := h.Trackers.SaveSettings(c.Request.Context(), profile(c), settings)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, saved)
}

// RequestPermission enables or disables notifications for the profile.
func (h *Handler) RequestPermission(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	settings, granted, err := h.Trackers.EnableNotifications(c.Request.Context(), profile(c), req.Enabled)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"granted": granted, "settings": settings})
}

func (h *Handler) TestNotification(c *gin.Context) {
	ctx := c.Request.Context()
	settings, err := h.Trackers.Settings(ctx, profile(c))
	if err != nil {
		Fail(c, err)
		return
	}
	if !settings.Enabled || !h.Notifier.Granted(ctx, profile(c)) {
		BadRequest(c, "notifications are not enabled")
		return
	}
	h.Notifier.ShowTest(ctx, profile(c))
	Message(c, "Test notification sent")
}
