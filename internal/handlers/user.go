package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/types"
)

type UserHandler struct {
	users  *services.UserService
	logger zerolog.Logger
}

func NewUserHandler(users *services.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) List(ctx *gin.Context) {
	users, err := h.users.List()

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.NewUserResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *UserHandler) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	user, err := h.users.Get(id)

	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}
