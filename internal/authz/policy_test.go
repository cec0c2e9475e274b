package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/authz"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func TestAllowProject(t *testing.T) {
	creator := auth.Identity{UserID: 1, Role: types.RoleMember}
	adminMember := auth.Identity{UserID: 2, Role: types.RoleMember}
	plainMember := auth.Identity{UserID: 3, Role: types.RoleMember}
	outsider := auth.Identity{UserID: 4, Role: types.RoleMember}

	accessFor := func(identity auth.Identity) authz.ProjectAccess {
		access := authz.ProjectAccess{CreatorID: 1}

		switch identity.UserID {
		case 2:
			access.Member = true
			access.MemberRole = types.RoleAdmin
		case 3:
			access.Member = true
			access.MemberRole = types.RoleMember
		}

		return access
	}

	tests := []struct {
		name     string
		identity auth.Identity
		action   authz.Action
		want     bool
	}{
		{"creator updates project", creator, authz.ActionUpdateProject, true},
		{"creator deletes project", creator, authz.ActionDeleteProject, true},
		{"creator manages members", creator, authz.ActionManageMembers, true},
		{"admin member updates project", adminMember, authz.ActionUpdateProject, true},
		{"admin member deletes project", adminMember, authz.ActionDeleteProject, true},
		{"plain member cannot update project", plainMember, authz.ActionUpdateProject, false},
		{"plain member cannot manage members", plainMember, authz.ActionManageMembers, false},
		{"outsider cannot delete project", outsider, authz.ActionDeleteProject, false},
		{"creator creates task", creator, authz.ActionCreateTask, true},
		{"plain member creates task", plainMember, authz.ActionCreateTask, true},
		{"admin member creates task", adminMember, authz.ActionCreateTask, true},
		{"outsider cannot create task", outsider, authz.ActionCreateTask, false},
		{"unknown action denied", creator, authz.Action("project:unknown"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authz.AllowProject(tt.identity, tt.action, accessFor(tt.identity))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowTask(t *testing.T) {
	assigneeID := uint(5)

	taskFor := func(project authz.ProjectAccess) authz.TaskAccess {
		return authz.TaskAccess{
			Project:    project,
			CreatorID:  2,
			AssignedTo: &assigneeID,
		}
	}

	projectAccess := func(identity auth.Identity, member bool, role string) authz.ProjectAccess {
		return authz.ProjectAccess{CreatorID: 1, Member: member, MemberRole: role}
	}

	tests := []struct {
		name     string
		identity auth.Identity
		member   bool
		role     string
		want     bool
	}{
		{"task creator may update", auth.Identity{UserID: 2}, false, "", true},
		{"assignee may update", auth.Identity{UserID: 5}, false, "", true},
		{"project creator may update", auth.Identity{UserID: 1}, false, "", true},
		{"project admin member may update", auth.Identity{UserID: 9}, true, types.RoleAdmin, true},
		{"plain project member may not update", auth.Identity{UserID: 9}, true, types.RoleMember, false},
		{"outsider may not update", auth.Identity{UserID: 9}, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access := taskFor(projectAccess(tt.identity, tt.member, tt.role))

			assert.Equal(t, tt.want, authz.AllowTask(tt.identity, authz.ActionUpdateTask, access))
			assert.Equal(t, tt.want, authz.AllowTask(tt.identity, authz.ActionDeleteTask, access))
		})
	}

	t.Run("unassigned task denies non-creator", func(t *testing.T) {
		access := authz.TaskAccess{
			Project:   authz.ProjectAccess{CreatorID: 1},
			CreatorID: 2,
		}

		assert.False(t, authz.AllowTask(auth.Identity{UserID: 5}, authz.ActionUpdateTask, access))
	})
}
