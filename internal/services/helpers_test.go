package services_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/store"
	"github.com/taskflow-dev/taskflow/internal/types"
)

type fixture struct {
	db       *gorm.DB
	users    *services.UserService
	projects *services.ProjectService
	tasks    *services.TaskService
	tokens   *auth.JWTManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := db.Connect(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	domainStore := store.New(database)
	logger := zerolog.Nop()

	tokens, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	return &fixture{
		db:       database,
		users:    services.NewUserService(domainStore, tokens, logger),
		projects: services.NewProjectService(domainStore, logger),
		tasks:    services.NewTaskService(domainStore, logger),
		tokens:   tokens,
	}
}

func (f *fixture) register(t *testing.T, name, email string) *models.User {
	t.Helper()

	user, _, err := f.users.Register(name, email, "Str0ng!pass")
	require.NoError(t, err)
	return user
}

func identityOf(user *models.User) auth.Identity {
	return auth.Identity{UserID: user.ID, Role: user.Role}
}

func ptr[T any](v T) *T {
	return &v
}

// promote flips a membership row to the project-scoped admin role. Role
// elevation has no service operation of its own, so tests reach into the row.
func promote(t *testing.T, f *fixture, projectID, userID uint) {
	t.Helper()

	err := f.db.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", types.RoleAdmin).Error
	require.NoError(t, err)
}

func membershipUserIDs(project *models.Project) []uint {
	ids := make([]uint, 0, len(project.Memberships))

	for _, m := range project.Memberships {
		ids = append(ids, m.UserID)
	}

	return ids
}
