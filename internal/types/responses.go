package types

import (
	"time"

	"github.com/taskflow-dev/taskflow/internal/models"
)

// UserResponse is the public shape of a user. Never carries secret material.
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

type MemberResponse struct {
	UserResponse
	MembershipRole string `json:"membership_role"`
}

type ProjectResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	DueDate     *time.Time       `json:"due_date"`
	Status      string           `json:"status"`
	Creator     UserResponse     `json:"creator"`
	Members     []MemberResponse `json:"members"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func NewProjectResponse(project models.Project) ProjectResponse {
	members := make([]MemberResponse, 0, len(project.Memberships))

	for _, m := range project.Memberships {
		members = append(members, MemberResponse{
			UserResponse:   NewUserResponse(m.User),
			MembershipRole: m.Role,
		})
	}

	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		DueDate:     project.DueDate,
		Status:      project.Status,
		Creator:     NewUserResponse(project.Creator),
		Members:     members,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ProjectSummary is the compact project shape embedded in task payloads.
type ProjectSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type TaskResponse struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     *time.Time     `json:"due_date"`
	Priority    string         `json:"priority"`
	Status      string         `json:"status"`
	Project     ProjectSummary `json:"project"`
	Assignee    *UserResponse  `json:"assignee"`
	Creator     UserResponse   `json:"creator"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewTaskResponse(task models.Task) TaskResponse {
	var assignee *UserResponse

	if task.Assignee != nil {
		resp := NewUserResponse(*task.Assignee)
		assignee = &resp
	}

	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		Project:     ProjectSummary{ID: task.Project.ID, Title: task.Project.Title},
		Assignee:    assignee,
		Creator:     NewUserResponse(task.Creator),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
