package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/store"
	"github.com/taskflow-dev/taskflow/internal/types"
)

// AuthMiddleware resolves the bearer token into an Identity and stashes it in
// the gin context. The user row is re-checked so tokens for deleted users and
// stale roles fail closed.
func AuthMiddleware(verifier auth.TokenVerifier, s *store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		identity, err := verifier.Verify(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := s.UserByID(identity.UserID)

		if err != nil {
			if apperrors.Is(err, apperrors.CodeNotFound) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			} else {
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			return
		}

		ctx.Set(types.ContextIdentityKey, auth.Identity{
			UserID: user.ID,
			Role:   user.Role,
		})
		ctx.Next()
	}
}
