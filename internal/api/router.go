// Package api exposes the routine services over JSON HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"daily-routine/internal/notify"
	"daily-routine/internal/service"
)

// Deps are the services the API serves.
type Deps struct {
	Tasks     *service.TaskService
	Templates *service.TemplateService
	Trackers  *service.TrackerService
	Reports   *service.ReportService
	Auth      *service.AuthService
	Notifier  *notify.Service
	Location  *time.Location
}

type Handler struct {
	Deps
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	h := &Handler{Deps: deps}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), MetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	p := router.Group("/api/profiles/:profile")
	{
		p.GET("/tasks", h.ListTasks)
		p.POST("/tasks", h.CreateTask)
		p.POST("/reorder", h.ReorderTasks)
		p.GET("/tasks/:id", h.GetTask)
		p.PUT("/tasks/:id", h.UpdateTask)
		p.DELETE("/tasks/:id", h.DeleteTask)
		p.POST("/tasks/:id/toggle", h.ToggleTask)

		p.GET("/templates", h.ListTemplates)
		p.POST("/templates/:id/apply", h.ApplyTemplate)
		p.POST("/activities/apply", h.ApplyActivities)

		p.GET("/analysis", h.AnalysisState)
		p.POST("/analysis", h.Analyze)
		p.POST("/analysis/apply", h.ApplySuggestion)
		p.GET("/stats", h.Stats)

		p.GET("/mood", h.GetMood)
		p.PUT("/mood", h.SaveMood)
		p.GET("/journal", h.GetJournal)
		p.PUT("/journal", h.SaveJournal)
		p.GET("/water", h.GetWater)
		p.POST("/water", h.AdjustWater)
		p.GET("/health", h.GetHealth)
		p.PUT("/health", h.SaveHealth)
		p.GET("/focus", h.GetFocus)
		p.PUT("/focus", h.SetFocus)
		p.POST("/focus/toggle", h.ToggleFocus)

		p.GET("/settings", h.GetSettings)
		p.PUT("/settings", h.SaveSettings)
		p.POST("/settings/permission", h.RequestPermission)
		p.POST("/settings/test", h.TestNotification)

		p.GET("/report", h.Report)
	}

	return router
}

func profile(c *gin.Context) string {
	return c.Param("profile")
}

// date is the ?date= query value, today when absent.
func (h *Handler) date(c *gin.Context) string {
	if d := c.Query("date"); d != "" {
		return d
	}
	return h.Trackers.Today()
}
