package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func (s *Store) CreateTask(task *models.Task) error {
	return s.db.Create(task).Error
}

func (s *Store) TaskByID(id uint) (*models.Task, error) {
	var task models.Task

	err := s.db.
		Preload("Project").
		Preload("Assignee").
		Preload("Creator").
		First(&task, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task")
		}
		return nil, err
	}

	return &task, nil
}

func (s *Store) ListTasks(filter types.TaskFilter) ([]models.Task, error) {
	query := s.db.
		Preload("Project").
		Preload("Assignee").
		Preload("Creator")

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	if filter.ProjectID != 0 {
		query = query.Where("project_id = ?", filter.ProjectID)
	}

	if filter.AssignedTo != 0 {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}

	var tasks []models.Task

	if err := query.Order(orderClause(filter.Order)).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateTask applies the supplied field map; omitted fields keep their value.
func (s *Store) UpdateTask(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	result := s.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperrors.NotFound("task")
	}

	return nil
}

func (s *Store) DeleteTask(id uint) error {
	result := s.db.Delete(&models.Task{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperrors.NotFound("task")
	}

	return nil
}
