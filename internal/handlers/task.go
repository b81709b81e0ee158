package handlers

import (
	"context"
	"log/slog"
	"net/http"

	dom "github.com/MokkeMeguru/todo-api/internal/domain"
	"github.com/MokkeMeguru/todo-api/internal/dto"

	"github.com/gin-gonic/gin"
)

// TaskService is the use-case surface the handlers call into.
type TaskService interface {
	GetAllTasks(ctx context.Context) ([]dom.Task, error)
	GetTaskByID(ctx context.Context, id uint64) (dom.Task, error)
	CreateTask(ctx context.Context, description string) (dom.Task, error)
	UpdateTask(ctx context.Context, id uint64, in dom.UpdateTask) (dom.Task, error)
	DeleteTask(ctx context.Context, id uint64) error
	CompleteTask(ctx context.Context, id uint64) (dom.Task, error)
	UncompleteTask(ctx context.Context, id uint64) (dom.Task, error)
	GetCompletedTasks(ctx context.Context) ([]dom.Task, error)
	GetPendingTasks(ctx context.Context) ([]dom.Task, error)
	GetTasksByStatus(ctx context.Context, completed bool) ([]dom.Task, error)
	SearchTasks(ctx context.Context, q string) ([]dom.Task, error)
}

type TaskHandler struct {
	svc TaskService
	log *slog.Logger
}

func NewTaskHandler(svc TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{svc: svc, log: logger}
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: bindingMessage(err, "request body")})
		return
	}

	t, err := h.svc.CreateTask(c.Request.Context(), req.Description)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TaskToResponse(t))
}

// List godoc
// @Summary      List all tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	h.writeList(c, h.svc.GetAllTasks)
}

// Completed godoc
// @Summary      List completed tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/completed [get]
func (h *TaskHandler) Completed(c *gin.Context) {
	h.writeList(c, h.svc.GetCompletedTasks)
}

// Pending godoc
// @Summary      List pending tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/pending [get]
func (h *TaskHandler) Pending(c *gin.Context) {
	h.writeList(c, h.svc.GetPendingTasks)
}

// ByStatus godoc
// @Summary      List tasks by completion status
// @Tags         tasks
// @Produce      json
// @Param        completed  query     bool  true  "Completion status"
// @Success      200        {array}   dto.TaskResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      500        {object}  dto.ErrorResponse
// @Router       /tasks/status [get]
func (h *TaskHandler) ByStatus(c *gin.Context) {
	var q dto.StatusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: bindingMessage(err, "completed")})
		return
	}
	h.writeList(c, func(ctx context.Context) ([]dom.Task, error) {
		return h.svc.GetTasksByStatus(ctx, *q.Completed)
	})
}

// Search godoc
// @Summary      Search tasks by description
// @Tags         tasks
// @Produce      json
// @Param        q    query     string  false  "Search query (case-insensitive)"
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/search [get]
func (h *TaskHandler) Search(c *gin.Context) {
	q := c.Query("q")
	h.writeList(c, func(ctx context.Context) ([]dom.Task, error) {
		return h.svc.SearchTasks(ctx, q)
	})
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.svc.GetTaskByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskToResponse(t))
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: bindingMessage(err, "request body")})
		return
	}
	t, err := h.svc.UpdateTask(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete godoc
// @Summary      Mark a task as completed
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/{id}/complete [put]
func (h *TaskHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.CompleteTask)
}

// Uncomplete godoc
// @Summary      Mark a task as pending again
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/{id}/uncomplete [put]
func (h *TaskHandler) Uncomplete(c *gin.Context) {
	h.transition(c, h.svc.UncompleteTask)
}

func (h *TaskHandler) transition(c *gin.Context, fn func(context.Context, uint64) (dom.Task, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := fn(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskToResponse(t))
}

func (h *TaskHandler) writeList(c *gin.Context, fn func(context.Context) ([]dom.Task, error)) {
	list, err := fn(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.TasksToResponses(list))
}

func parseID(c *gin.Context) (uint64, bool) {
	var uri dto.TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uri.ID, true
}
