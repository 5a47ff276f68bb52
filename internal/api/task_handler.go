package api

import (
	"github.com/gin-gonic/gin"

	"daily-routine/internal/model"
)

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context(), profile(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var in model.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	task, err := h.Tasks.Add(c.Request.Context(), profile(c), in)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	task, ok, err := h.Tasks.Get(c.Request.Context(), profile(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	if !ok {
		NotFound(c, "task not found")
		return
	}
	Success(c, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var in model.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	task, ok, err := h.Tasks.Update(c.Request.Context(), profile(c), c.Param("id"), in)
	if err != nil {
		Fail(c, err)
		return
	}
	if !ok {
		NotFound(c, "task not found")
		return
	}
	Success(c, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	ok, err := h.Tasks.Delete(c.Request.Context(), profile(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	if !ok {
		NotFound(c, "task not found")
		return
	}
	Message(c, "Task deleted")
}

func (h *Handler) ToggleTask(c *gin.Context) {
	task, ok, err := h.Tasks.Toggle(c.Request.Context(), profile(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	if !ok {
		NotFound(c, "task not found")
		return
	}
	Success(c, task)
}

// ReorderTasks moves a task between positions of the stored order.
func (h *Handler) ReorderTasks(c *gin.Context) {
	var req struct {
		From *int `json:"from" binding:"required"`
		To   *int `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	ok, err := h.Tasks.Reorder(ctx, profile(c), *req.From, *req.To)
	if err != nil {
		Fail(c, err)
		return
	}
	if !ok {
		BadRequest(c, "position out of range")
		return
	}
	tasks, err := h.Tasks.Tasks(ctx, profile(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, tasks)
}
