package services

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/authz"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/store"
	"github.com/taskflow-dev/taskflow/internal/types"
)

type TaskService struct {
	store  *store.Store
	logger zerolog.Logger
}

func NewTaskService(s *store.Store, logger zerolog.Logger) *TaskService {
	return &TaskService{store: s, logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Status      string
	ProjectID   uint
	AssignedTo  *uint
}

// UpdateTaskInput carries partial-update fields. AssignedTo is tri-state:
// unset leaves the assignee alone, an explicit null clears it.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
	Status      *string
	ProjectID   *uint
	AssignedTo  types.OptionalID
}

func (s *TaskService) Create(identity auth.Identity, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)

	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	if len(input.Description) > types.MaxDescriptionLength {
		return nil, apperrors.Validation("description must be at most %d characters", types.MaxDescriptionLength)
	}

	priority := input.Priority

	if priority == "" {
		priority = types.PriorityMedium
	}

	if !types.ValidTaskPriority(priority) {
		return nil, apperrors.Validation("invalid task priority %q", priority)
	}

	status := input.Status

	if status == "" {
		status = types.TaskTodo
	}

	if !types.ValidTaskStatus(status) {
		return nil, apperrors.Validation("invalid task status %q", status)
	}

	project, err := s.store.ProjectByID(input.ProjectID)

	if err != nil {
		return nil, err
	}

	access, err := s.projectAccess(identity, project.ID, project.CreatedBy)

	if err != nil {
		return nil, err
	}

	if !authz.AllowProject(identity, authz.ActionCreateTask, access) {
		return nil, apperrors.Forbidden()
	}

	if err := s.requireAssignee(input.AssignedTo); err != nil {
		return nil, err
	}

	task := models.Task{
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    priority,
		Status:      status,
		ProjectID:   project.ID,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   identity.UserID,
	}

	if err := s.store.CreateTask(&task); err != nil {
		s.logger.Error().Err(err).Msg("creating task")
		return nil, err
	}

	return s.store.TaskByID(task.ID)
}

func (s *TaskService) List(filter types.TaskFilter) ([]models.Task, error) {
	if err := validateTaskFilter(filter); err != nil {
		return nil, err
	}

	return s.store.ListTasks(filter)
}

func (s *TaskService) Get(id uint) (*models.Task, error) {
	return s.store.TaskByID(id)
}

// ForProject lists a project's tasks; the project must exist.
func (s *TaskService) ForProject(projectID uint, filter types.TaskFilter) ([]models.Task, error) {
	if _, err := s.store.ProjectByID(projectID); err != nil {
		return nil, err
	}

	filter.ProjectID = projectID
	return s.List(filter)
}

// ForUser lists the tasks assigned to a user; the user must exist.
func (s *TaskService) ForUser(userID uint, filter types.TaskFilter) ([]models.Task, error) {
	if _, err := s.store.UserByID(userID); err != nil {
		return nil, err
	}

	filter.AssignedTo = userID
	return s.List(filter)
}

func (s *TaskService) Update(identity auth.Identity, id uint, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.store.TaskByID(id)

	if err != nil {
		return nil, err
	}

	if err := s.authorize(identity, authz.ActionUpdateTask, task); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)

		if title == "" {
			return nil, apperrors.Validation("title is required")
		}

		fields["title"] = title
	}

	if input.Description != nil {
		if len(*input.Description) > types.MaxDescriptionLength {
			return nil, apperrors.Validation("description must be at most %d characters", types.MaxDescriptionLength)
		}

		fields["description"] = *input.Description
	}

	if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}

	if input.Priority != nil {
		if !types.ValidTaskPriority(*input.Priority) {
			return nil, apperrors.Validation("invalid task priority %q", *input.Priority)
		}

		fields["priority"] = *input.Priority
	}

	if input.Status != nil {
		if !types.ValidTaskStatus(*input.Status) {
			return nil, apperrors.Validation("invalid task status %q", *input.Status)
		}

		fields["status"] = *input.Status
	}

	if input.ProjectID != nil {
		if _, err := s.store.ProjectByID(*input.ProjectID); err != nil {
			return nil, err
		}

		fields["project_id"] = *input.ProjectID
	}

	if input.AssignedTo.Set {
		if err := s.requireAssignee(input.AssignedTo.Value); err != nil {
			return nil, err
		}

		fields["assigned_to"] = input.AssignedTo.Value
	}

	if err := s.store.UpdateTask(id, fields); err != nil {
		s.logger.Error().Err(err).Uint("task_id", id).Msg("updating task")
		return nil, err
	}

	return s.store.TaskByID(id)
}

func (s *TaskService) Delete(identity auth.Identity, id uint) error {
	task, err := s.store.TaskByID(id)

	if err != nil {
		return err
	}

	if err := s.authorize(identity, authz.ActionDeleteTask, task); err != nil {
		return err
	}

	if err := s.store.DeleteTask(id); err != nil {
		s.logger.Error().Err(err).Uint("task_id", id).Msg("deleting task")
		return err
	}

	return nil
}

func (s *TaskService) authorize(identity auth.Identity, action authz.Action, task *models.Task) error {
	projectAccess, err := s.projectAccess(identity, task.ProjectID, task.Project.CreatedBy)

	if err != nil {
		return err
	}

	access := authz.TaskAccess{
		Project:    projectAccess,
		CreatorID:  task.CreatedBy,
		AssignedTo: task.AssignedTo,
	}

	if !authz.AllowTask(identity, action, access) {
		return apperrors.Forbidden()
	}

	return nil
}

func (s *TaskService) projectAccess(identity auth.Identity, projectID, projectCreator uint) (authz.ProjectAccess, error) {
	role, member, err := s.store.MembershipRole(projectID, identity.UserID)

	if err != nil {
		return authz.ProjectAccess{}, err
	}

	return authz.ProjectAccess{
		CreatorID:  projectCreator,
		Member:     member,
		MemberRole: role,
	}, nil
}

// requireAssignee validates an assignee reference; nil means unassigned and
// is never an error.
func (s *TaskService) requireAssignee(id *uint) error {
	if id == nil {
		return nil
	}

	ok, err := s.store.UsersExist([]uint{*id})

	if err != nil {
		return err
	}

	if !ok {
		return apperrors.Validation("assignee does not reference an existing user")
	}

	return nil
}

func validateTaskFilter(filter types.TaskFilter) error {
	if filter.Status != "" && !types.ValidTaskStatus(filter.Status) {
		return apperrors.Validation("invalid task status %q", filter.Status)
	}

	if filter.Priority != "" && !types.ValidTaskPriority(filter.Priority) {
		return apperrors.Validation("invalid task priority %q", filter.Priority)
	}

	if !types.ValidOrder(filter.Order) {
		return apperrors.Validation("invalid sort order %q", filter.Order)
	}

	return nil
}
