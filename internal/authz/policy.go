// Package authz holds the pure authorization policy. It decides allow/deny
// from values the services hand it; it never touches storage itself, so a
// deny can always be reached before any side effect.
package authz

import (
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/types"
)

type Action string

const (
	ActionUpdateProject Action = "project:update"
	ActionDeleteProject Action = "project:delete"
	ActionManageMembers Action = "project:members"
	ActionCreateTask    Action = "task:create"
	ActionUpdateTask    Action = "task:update"
	ActionDeleteTask    Action = "task:delete"
)

// ProjectAccess is the policy-relevant snapshot of a project as seen by one
// caller: who created it and what membership, if any, the caller holds.
type ProjectAccess struct {
	CreatorID  uint
	Member     bool
	MemberRole string
}

// TaskAccess extends ProjectAccess with the task's own creator and assignee.
type TaskAccess struct {
	Project    ProjectAccess
	CreatorID  uint
	AssignedTo *uint
}

// AllowProject decides whether identity may perform a project-level action.
// Reads are open to any authenticated identity and never come through here.
func AllowProject(identity auth.Identity, action Action, project ProjectAccess) bool {
	switch action {
	case ActionUpdateProject, ActionDeleteProject, ActionManageMembers:
		return isProjectManager(identity, project)
	case ActionCreateTask:
		return project.Member || project.CreatorID == identity.UserID
	default:
		return false
	}
}

// AllowTask decides whether identity may mutate a task: its creator, its
// current assignee, or an admin member of the owning project.
func AllowTask(identity auth.Identity, action Action, task TaskAccess) bool {
	switch action {
	case ActionUpdateTask, ActionDeleteTask:
		if task.CreatorID == identity.UserID {
			return true
		}

		if task.AssignedTo != nil && *task.AssignedTo == identity.UserID {
			return true
		}

		return isProjectManager(identity, task.Project)
	default:
		return false
	}
}

func isProjectManager(identity auth.Identity, project ProjectAccess) bool {
	if project.CreatorID == identity.UserID {
		return true
	}

	return project.Member && project.MemberRole == types.RoleAdmin
}
