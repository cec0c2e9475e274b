package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func TestTaskLifecycleAcrossUsers(t *testing.T) {
	f := newFixture(t)

	u1 := f.register(t, "U1", "a@x.com")
	u2 := f.register(t, "U2", "u2@x.com")
	u3 := f.register(t, "U3", "u3@x.com")

	p1, err := f.projects.Create(identityOf(u1), services.CreateProjectInput{Title: "P1"})
	require.NoError(t, err)

	_, err = f.projects.AddMembers(identityOf(u1), p1.ID, []uint{u2.ID})
	require.NoError(t, err)

	t1, err := f.tasks.Create(identityOf(u1), services.CreateTaskInput{
		Title:      "T1",
		Priority:   types.PriorityHigh,
		Status:     types.TaskTodo,
		ProjectID:  p1.ID,
		AssignedTo: &u2.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, t1.AssignedTo)
	assert.Equal(t, u2.ID, *t1.AssignedTo)

	// The assignee may update the task.
	updated, err := f.tasks.Update(identityOf(u2), t1.ID, services.UpdateTaskInput{
		Status: ptr(types.TaskCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, types.TaskCompleted, updated.Status)

	// An unrelated user may not.
	_, err = f.tasks.Update(identityOf(u3), t1.ID, services.UpdateTaskInput{
		Status: ptr(types.TaskTodo),
	})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.Code(err))
}

func TestCreateTask_RequiresExistingProject(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:     "orphan",
		ProjectID: 9999,
	})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.Code(err))
}

func TestCreateTask_RequiresProjectMembership(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, "Alice", "alice@example.com")
	mallory := f.register(t, "Mallory", "mallory@example.com")

	project, err := f.projects.Create(identityOf(alice), services.CreateProjectInput{Title: "Private"})
	require.NoError(t, err)

	_, err = f.tasks.Create(identityOf(mallory), services.CreateTaskInput{
		Title:     "sneaky",
		ProjectID: project.ID,
	})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.Code(err))
}

func TestCreateTask_DefaultsAndEnumValidation(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, "Alice", "alice@example.com")

	project, err := f.projects.Create(identityOf(alice), services.CreateProjectInput{Title: "Launch"})
	require.NoError(t, err)

	task, err := f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:     "defaults",
		ProjectID: project.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, types.PriorityMedium, task.Priority)
	assert.Equal(t, types.TaskTodo, task.Status)
	assert.Nil(t, task.AssignedTo)

	_, err = f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:     "bad priority",
		Priority:  "urgent",
		ProjectID: project.ID,
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.Code(err))

	_, err = f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:     "bad status",
		Status:    "done",
		ProjectID: project.ID,
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.Code(err))

	_, err = f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:      "bad assignee",
		ProjectID:  project.ID,
		AssignedTo: ptr(uint(9999)),
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.Code(err))
}

func TestUpdateTask_AssigneeRoundTrip(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	project, err := f.projects.Create(identityOf(alice), services.CreateProjectInput{Title: "Launch"})
	require.NoError(t, err)

	task, err := f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:      "assigned",
		ProjectID:  project.ID,
		AssignedTo: &bob.ID,
	})
	require.NoError(t, err)

	fetched, err := f.tasks.Get(task.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.AssignedTo)
	assert.Equal(t, bob.ID, *fetched.AssignedTo)

	// Explicit null clears the assignment.
	cleared, err := f.tasks.Update(identityOf(alice), task.ID, services.UpdateTaskInput{
		AssignedTo: types.OptionalID{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.AssignedTo)

	fetched, err = f.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.AssignedTo)
}

func TestUpdateTask_PartialUpdateKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	project, err := f.projects.Create(identityOf(alice), services.CreateProjectInput{Title: "Launch"})
	require.NoError(t, err)

	task, err := f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:       "original",
		Description: "keep me",
		Priority:    types.PriorityHigh,
		ProjectID:   project.ID,
		AssignedTo:  &bob.ID,
	})
	require.NoError(t, err)

	updated, err := f.tasks.Update(identityOf(alice), task.ID, services.UpdateTaskInput{
		Status: ptr(types.TaskInProgress),
	})
	require.NoError(t, err)

	assert.Equal(t, "original", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, types.PriorityHigh, updated.Priority)
	assert.Equal(t, types.TaskInProgress, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, bob.ID, *updated.AssignedTo)
}

func TestUpdateTask_RejectsUnknownProjectAndEnums(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, "Alice", "alice@example.com")

	project, err := f.projects.Create(identityOf(alice), services.CreateProjectInput{Title: "Launch"})
	require.NoError(t, err)

	task, err := f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:     "movable",
		ProjectID: project.ID,
	})
	require.NoError(t, err)

	_, err = f.tasks.Update(identityOf(alice), task.ID, services.UpdateTaskInput{
		ProjectID: ptr(uint(9999)),
	})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.Code(err))

	_, err = f.tasks.Update(identityOf(alice), task.ID, services.UpdateTaskInput{
		Status: ptr("done"),
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.Code(err))

	// Failed updates left the task untouched.
	unchanged, err := f.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, unchanged.ProjectID)
	assert.Equal(t, types.TaskTodo, unchanged.Status)
}

func TestDeleteTask_PolicyAndCleanup(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, "Alice", "alice@example.com")
	mallory := f.register(t, "Mallory", "mallory@example.com")

	project, err := f.projects.Create(identityOf(alice), services.CreateProjectInput{Title: "Launch"})
	require.NoError(t, err)

	task, err := f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:     "short lived",
		ProjectID: project.ID,
	})
	require.NoError(t, err)

	err = f.tasks.Delete(identityOf(mallory), task.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.Code(err))

	require.NoError(t, f.tasks.Delete(identityOf(alice), task.ID))

	_, err = f.tasks.Get(task.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.Code(err))
}

func TestTasksForProjectAndUser(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	first, err := f.projects.Create(identityOf(alice), services.CreateProjectInput{Title: "First"})
	require.NoError(t, err)

	second, err := f.projects.Create(identityOf(alice), services.CreateProjectInput{Title: "Second"})
	require.NoError(t, err)

	_, err = f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:      "first/assigned",
		ProjectID:  first.ID,
		AssignedTo: &bob.ID,
	})
	require.NoError(t, err)

	_, err = f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:     "first/unassigned",
		ProjectID: first.ID,
	})
	require.NoError(t, err)

	_, err = f.tasks.Create(identityOf(alice), services.CreateTaskInput{
		Title:      "second/assigned",
		ProjectID:  second.ID,
		AssignedTo: &bob.ID,
	})
	require.NoError(t, err)

	forProject, err := f.tasks.ForProject(first.ID, types.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, forProject, 2)

	forUser, err := f.tasks.ForUser(bob.ID, types.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, forUser, 2)

	// Convenience filters still compose with the rest of the predicate set.
	scoped, err := f.tasks.ForUser(bob.ID, types.TaskFilter{ProjectID: second.ID})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "second/assigned", scoped[0].Title)

	_, err = f.tasks.ForProject(9999, types.TaskFilter{})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.Code(err))

	_, err = f.tasks.ForUser(9999, types.TaskFilter{})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.Code(err))
}
