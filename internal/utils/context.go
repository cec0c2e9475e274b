package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func CurrentIdentity(ctx *gin.Context) (auth.Identity, error) {
	value, exists := ctx.Get(types.ContextIdentityKey)

	if !exists {
		return auth.Identity{}, fmt.Errorf("identity missing from request context")
	}

	identity, ok := value.(auth.Identity)

	if !ok {
		return auth.Identity{}, fmt.Errorf("invalid identity type in request context")
	}

	return identity, nil
}
