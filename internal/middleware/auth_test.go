package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/middleware"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/store"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func setupAuthTest(t *testing.T) (*gin.Engine, *store.Store, *auth.JWTManager, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	database, err := db.Connect(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	domainStore := store.New(database)

	tokens, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(tokens, domainStore), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	return r, domainStore, tokens, database
}

func protectedRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	if header != "" {
		req.Header.Set("Authorization", header)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, s, tokens, _ := setupAuthTest(t)

	user := models.User{
		Name:         "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Role:         types.RoleMember,
	}
	require.NoError(t, s.CreateUser(&user))

	token, err := tokens.Issue(user.ID, user.Role)
	require.NoError(t, err)

	w := protectedRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddleware_RejectsBadHeaders(t *testing.T) {
	r, _, _, _ := setupAuthTest(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := protectedRequest(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_UnknownUserFailsClosed(t *testing.T) {
	r, _, tokens, _ := setupAuthTest(t)

	// Token is validly signed but its user does not exist.
	token, err := tokens.Issue(9999, types.RoleMember)
	require.NoError(t, err)

	w := protectedRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_StorageFailureIsInternal(t *testing.T) {
	r, s, tokens, database := setupAuthTest(t)

	user := models.User{
		Name:         "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Role:         types.RoleMember,
	}
	require.NoError(t, s.CreateUser(&user))

	token, err := tokens.Issue(user.ID, user.Role)
	require.NoError(t, err)

	// A storage outage must not masquerade as a credential problem.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := protectedRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
