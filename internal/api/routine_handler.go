package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"daily-routine/internal/model"
	"daily-routine/internal/report"
)

func (h *Handler) ListTemplates(c *gin.Context) {
	Success(c, h.Templates.Catalog())
}

func (h *Handler) ApplyTemplate(c *gin.Context) {
	tasks, err := h.Templates.ApplyTemplate(c.Request.Context(), profile(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, tasks)
}

func (h *Handler) ApplyActivities(c *gin.Context) {
	var req struct {
		Names []string `json:"names" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	tasks, err := h.Templates.ApplyActivities(c.Request.Context(), profile(c), req.Names)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, tasks)
}

// Analyze blocks for the analysis delay and returns the result.
func (h *Handler) Analyze(c *gin.Context) {
	res, err := h.Tasks.Analyze(c.Request.Context(), profile(c))
	if err != nil {
		if c.Request.Context().Err() != nil {
			return
		}
		Fail(c, err)
		return
	}
	Success(c, res)
}

func (h *Handler) AnalysisState(c *gin.Context) {
	state, res := h.Tasks.AnalysisState(profile(c))
	Success(c, gin.H{"state": state.String(), "result": res})
}

func (h *Handler) ApplySuggestion(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	task, err := h.Tasks.ApplySuggestion(c.Request.Context(), profile(c), req.Name)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, task)
}

func (h *Handler) Stats(c *gin.Context) {
	summary, err := h.Tasks.Summary(c.Request.Context(), profile(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, summary)
}

// Report returns the plain-text export as a download.
func (h *Handler) Report(c *gin.Context) {
	day, err := time.ParseInLocation(model.DateLayout, h.date(c), h.Location)
	if err != nil {
		BadRequest(c, "date must be YYYY-MM-DD")
		return
	}
	text, err := h.Reports.Daily(c.Request.Context(), profile(c), day)
	if err != nil {
		Fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename(day)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
