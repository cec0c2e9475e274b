package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

type TaskHandler struct {
	tasks  *services.TaskService
	logger zerolog.Logger
}

func NewTaskHandler(tasks *services.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	ProjectID   uint       `json:"project_id" binding:"required"`
	AssignedTo  *uint      `json:"assigned_to"`
}

type UpdateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	DueDate     *time.Time       `json:"due_date"`
	Priority    *string          `json:"priority"`
	Status      *string          `json:"status"`
	ProjectID   *uint            `json:"project_id"`
	AssignedTo  types.OptionalID `json:"assigned_to"`
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	identity, err := utils.CurrentIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.tasks.Create(identity, services.CreateTaskInput{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		Status:      body.Status,
		ProjectID:   body.ProjectID,
		AssignedTo:  body.AssignedTo,
	})

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewTaskResponse(*task))
}

func (h *TaskHandler) List(ctx *gin.Context) {
	filter, ok := taskFilterFromQuery(ctx)

	if !ok {
		return
	}

	tasks, err := h.tasks.List(filter)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	task, err := h.tasks.Get(id)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(*task))
}

func (h *TaskHandler) ForProject(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "project_id")

	if !ok {
		return
	}

	filter, ok := taskFilterFromQuery(ctx)

	if !ok {
		return
	}

	tasks, err := h.tasks.ForProject(projectID, filter)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

func (h *TaskHandler) ForUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "user_id")

	if !ok {
		return
	}

	filter, ok := taskFilterFromQuery(ctx)

	if !ok {
		return
	}

	tasks, err := h.tasks.ForUser(userID, filter)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	identity, err := utils.CurrentIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.tasks.Update(identity, id, services.UpdateTaskInput{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		Status:      body.Status,
		ProjectID:   body.ProjectID,
		AssignedTo:  body.AssignedTo,
	})

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(*task))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	identity, err := utils.CurrentIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	if err := h.tasks.Delete(identity, id); err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func taskFilterFromQuery(ctx *gin.Context) (types.TaskFilter, bool) {
	filter := types.TaskFilter{
		Search:   ctx.Query("search"),
		Status:   ctx.Query("status"),
		Priority: ctx.Query("priority"),
		Order:    ctx.Query("order"),
	}

	if raw := ctx.Query("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return types.TaskFilter{}, false
		}

		filter.ProjectID = uint(id)
	}

	if raw := ctx.Query("assigned_to"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to"})
			return types.TaskFilter{}, false
		}

		filter.AssignedTo = uint(id)
	}

	return filter, true
}

func taskResponses(tasks []models.Task) []types.TaskResponse {
	response := make([]types.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, types.NewTaskResponse(task))
	}

	return response
}
