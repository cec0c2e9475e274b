package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
)

// CreateProject inserts the project and any initial membership rows in one
// transaction, so a crash never leaves members without their project.
func (s *Store) CreateProject(project *models.Project, memberIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		return addMemberships(tx, project.ID, memberIDs)
	})
}

func (s *Store) ProjectByID(id uint) (*models.Project, error) {
	var project models.Project

	err := s.db.
		Preload("Creator").
		Preload("Memberships.User").
		First(&project, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project")
		}
		return nil, err
	}

	return &project, nil
}

func (s *Store) ListProjects(filter types.ProjectFilter) ([]models.Project, error) {
	query := s.db.
		Preload("Creator").
		Preload("Memberships.User")

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var projects []models.Project

	if err := query.Order(orderClause(filter.Order)).Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// UpdateProject applies the supplied field map and, when members is non-nil,
// reconciles the membership set to exactly that list. Both run in one
// transaction so the membership diff can never outlive a failed field update.
func (s *Store) UpdateProject(id uint, fields map[string]interface{}, members *[]uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			result := tx.Model(&models.Project{}).Where("id = ?", id).Updates(fields)

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				return apperrors.NotFound("project")
			}
		}

		if members == nil {
			return nil
		}

		wanted := dedupe(*members)
		wantedSet := make(map[uint]struct{}, len(wanted))

		for _, userID := range wanted {
			wantedSet[userID] = struct{}{}
		}

		var existing []models.ProjectMembership

		if err := tx.Where("project_id = ?", id).Find(&existing).Error; err != nil {
			return err
		}

		existingSet := make(map[uint]struct{}, len(existing))

		for _, m := range existing {
			existingSet[m.UserID] = struct{}{}

			if _, keep := wantedSet[m.UserID]; !keep {
				if err := tx.Unscoped().Delete(&models.ProjectMembership{}, m.ID).Error; err != nil {
					return err
				}
			}
		}

		var missing []uint

		for _, userID := range wanted {
			if _, present := existingSet[userID]; !present {
				missing = append(missing, userID)
			}
		}

		return addMemberships(tx, id, missing)
	})
}

// DeleteProject cascades to the project's tasks and memberships atomically.
func (s *Store) DeleteProject(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("project_id = ?", id).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return apperrors.NotFound("project")
		}

		return nil
	})
}

// AddMembers is idempotent: user ids already on the project are skipped.
func (s *Store) AddMembers(projectID uint, userIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing []uint

		err := tx.Model(&models.ProjectMembership{}).
			Where("project_id = ? AND user_id IN ?", projectID, userIDs).
			Pluck("user_id", &existing).Error

		if err != nil {
			return err
		}

		existingSet := make(map[uint]struct{}, len(existing))

		for _, userID := range existing {
			existingSet[userID] = struct{}{}
		}

		var missing []uint

		for _, userID := range dedupe(userIDs) {
			if _, present := existingSet[userID]; !present {
				missing = append(missing, userID)
			}
		}

		return addMemberships(tx, projectID, missing)
	})
}

// RemoveMembers is idempotent: absent user ids are a no-op. Removal is a
// hard delete; a soft-deleted row would keep occupying the (user, project)
// unique index and block the member from ever being re-added.
func (s *Store) RemoveMembers(projectID uint, userIDs []uint) error {
	return s.db.Unscoped().
		Where("project_id = ? AND user_id IN ?", projectID, userIDs).
		Delete(&models.ProjectMembership{}).Error
}

// MembershipRole returns the caller's project-scoped role, if any.
func (s *Store) MembershipRole(projectID, userID uint) (string, bool, error) {
	var membership models.ProjectMembership

	err := s.db.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	return membership.Role, true, nil
}

func addMemberships(tx *gorm.DB, projectID uint, userIDs []uint) error {
	for _, userID := range dedupe(userIDs) {
		membership := models.ProjectMembership{
			ProjectID: projectID,
			UserID:    userID,
			Role:      types.RoleMember,
		}

		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
	}

	return nil
}

func orderClause(order string) string {
	if order == types.OrderCreatedAsc {
		return "created_at ASC"
	}

	return "created_at DESC"
}
