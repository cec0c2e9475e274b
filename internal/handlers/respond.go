package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
)

// respondError maps a coded service error to its HTTP status. Uncoded errors
// are internal: they get logged and surfaced as a generic 500 so storage
// detail never reaches the caller.
func respondError(ctx *gin.Context, logger zerolog.Logger, err error) {
	switch apperrors.Code(err) {
	case apperrors.CodeValidation, apperrors.CodeDuplicateEmail:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.CodeInvalidCredentials, apperrors.CodeUnauthenticated:
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperrors.CodeForbidden:
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.CodeNotFound:
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error().Err(err).Str("path", ctx.FullPath()).Msg("internal error")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}

	return uint(id), true
}
