package db

import (
	"gorm.io/gorm"

	"github.com/taskflow-dev/taskflow/internal/models"
)

// Connect opens the database behind the given dialector. Production uses
// postgres; tests hand in an in-memory sqlite dialector.
func Connect(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{})
}

func Migrate(database *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.Task{},
	}

	migrator := database.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := database.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}
