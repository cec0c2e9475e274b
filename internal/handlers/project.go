package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/types"
	"github.com/taskflow-dev/taskflow/internal/utils"
)

type ProjectHandler struct {
	projects *services.ProjectService
	logger   zerolog.Logger
}

func NewProjectHandler(projects *services.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

type CreateProjectRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	Members     []uint     `json:"members"`
}

type UpdateProjectRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status"`
	Members     *[]uint    `json:"members"`
}

type ProjectMembersRequest struct {
	Members []uint `json:"members" binding:"required,min=1"`
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	identity, err := utils.CurrentIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.Create(identity, services.CreateProjectInput{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Status:      body.Status,
		Members:     body.Members,
	})

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewProjectResponse(*project))
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	filter := types.ProjectFilter{
		Search: ctx.Query("search"),
		Status: ctx.Query("status"),
		Order:  ctx.Query("order"),
	}

	projects, err := h.projects.List(filter)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, types.NewProjectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	project, err := h.projects.Get(id)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(*project))
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
	identity, err := utils.CurrentIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.Update(identity, id, services.UpdateProjectInput{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Status:      body.Status,
		Members:     body.Members,
	})

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(*project))
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	identity, err := utils.CurrentIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	if err := h.projects.Delete(identity, id); err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) AddMembers(ctx *gin.Context) {
	identity, err := utils.CurrentIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var body ProjectMembersRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.AddMembers(identity, id, body.Members)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(*project))
}

func (h *ProjectHandler) RemoveMembers(ctx *gin.Context) {
	identity, err := utils.CurrentIdentity(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var body ProjectMembersRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.RemoveMembers(identity, id, body.Members)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(*project))
}
