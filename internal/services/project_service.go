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

type ProjectService struct {
	store  *store.Store
	logger zerolog.Logger
}

func NewProjectService(s *store.Store, logger zerolog.Logger) *ProjectService {
	return &ProjectService{store: s, logger: logger}
}

type CreateProjectInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
	Members     []uint
}

// UpdateProjectInput carries partial-update fields: nil means "leave alone".
// A non-nil Members replaces the whole membership set.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *string
	Members     *[]uint
}

func (s *ProjectService) Create(identity auth.Identity, input CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)

	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	if len(input.Description) > types.MaxDescriptionLength {
		return nil, apperrors.Validation("description must be at most %d characters", types.MaxDescriptionLength)
	}

	status := input.Status

	if status == "" {
		status = types.ProjectActive
	}

	if !types.ValidProjectStatus(status) {
		return nil, apperrors.Validation("invalid project status %q", status)
	}

	if err := s.requireUsers(input.Members); err != nil {
		return nil, err
	}

	project := models.Project{
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      status,
		CreatedBy:   identity.UserID,
	}

	if err := s.store.CreateProject(&project, input.Members); err != nil {
		s.logger.Error().Err(err).Msg("creating project")
		return nil, err
	}

	return s.store.ProjectByID(project.ID)
}

func (s *ProjectService) List(filter types.ProjectFilter) ([]models.Project, error) {
	if filter.Status != "" && !types.ValidProjectStatus(filter.Status) {
		return nil, apperrors.Validation("invalid project status %q", filter.Status)
	}

	if !types.ValidOrder(filter.Order) {
		return nil, apperrors.Validation("invalid sort order %q", filter.Order)
	}

	return s.store.ListProjects(filter)
}

func (s *ProjectService) Get(id uint) (*models.Project, error) {
	return s.store.ProjectByID(id)
}

func (s *ProjectService) Update(identity auth.Identity, id uint, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.store.ProjectByID(id)

	if err != nil {
		return nil, err
	}

	if err := s.authorize(identity, authz.ActionUpdateProject, project); err != nil {
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

	if input.Status != nil {
		if !types.ValidProjectStatus(*input.Status) {
			return nil, apperrors.Validation("invalid project status %q", *input.Status)
		}

		fields["status"] = *input.Status
	}

	if input.Members != nil {
		if err := s.requireUsers(*input.Members); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateProject(id, fields, input.Members); err != nil {
		s.logger.Error().Err(err).Uint("project_id", id).Msg("updating project")
		return nil, err
	}

	return s.store.ProjectByID(id)
}

func (s *ProjectService) Delete(identity auth.Identity, id uint) error {
	project, err := s.store.ProjectByID(id)

	if err != nil {
		return err
	}

	if err := s.authorize(identity, authz.ActionDeleteProject, project); err != nil {
		return err
	}

	if err := s.store.DeleteProject(id); err != nil {
		s.logger.Error().Err(err).Uint("project_id", id).Msg("deleting project")
		return err
	}

	return nil
}

func (s *ProjectService) AddMembers(identity auth.Identity, id uint, userIDs []uint) (*models.Project, error) {
	project, err := s.store.ProjectByID(id)

	if err != nil {
		return nil, err
	}

	if err := s.authorize(identity, authz.ActionManageMembers, project); err != nil {
		return nil, err
	}

	if err := s.requireUsers(userIDs); err != nil {
		return nil, err
	}

	if err := s.store.AddMembers(id, userIDs); err != nil {
		s.logger.Error().Err(err).Uint("project_id", id).Msg("adding members")
		return nil, err
	}

	return s.store.ProjectByID(id)
}

func (s *ProjectService) RemoveMembers(identity auth.Identity, id uint, userIDs []uint) (*models.Project, error) {
	project, err := s.store.ProjectByID(id)

	if err != nil {
		return nil, err
	}

	if err := s.authorize(identity, authz.ActionManageMembers, project); err != nil {
		return nil, err
	}

	if err := s.store.RemoveMembers(id, userIDs); err != nil {
		s.logger.Error().Err(err).Uint("project_id", id).Msg("removing members")
		return nil, err
	}

	return s.store.ProjectByID(id)
}

// authorize builds the caller's view of the project and consults the policy.
// It runs before any mutation, so a deny has no side effects.
func (s *ProjectService) authorize(identity auth.Identity, action authz.Action, project *models.Project) error {
	access, err := s.projectAccess(identity, project)

	if err != nil {
		return err
	}

	if !authz.AllowProject(identity, action, access) {
		return apperrors.Forbidden()
	}

	return nil
}

func (s *ProjectService) projectAccess(identity auth.Identity, project *models.Project) (authz.ProjectAccess, error) {
	role, member, err := s.store.MembershipRole(project.ID, identity.UserID)

	if err != nil {
		return authz.ProjectAccess{}, err
	}

	return authz.ProjectAccess{
		CreatorID:  project.CreatedBy,
		Member:     member,
		MemberRole: role,
	}, nil
}

func (s *ProjectService) requireUsers(ids []uint) error {
	ok, err := s.store.UsersExist(ids)

	if err != nil {
		return err
	}

	if !ok {
		return apperrors.Validation("one or more member ids do not reference an existing user")
	}

	return nil
}
