package repository

import (
	"cmp"
	"fmt"
	"slices"

	"projecthub/internal/apperr"
	"projecthub/internal/model"
	"projecthub/pkg/metrics"

	"go.uber.org/zap"
)

// TaskRepository stores tasks. Every access goes through the parent project's
// owner; the task itself carries no owner.
type TaskRepository struct {
	s      *Store
	logger *zap.Logger

	tasks  map[int]*model.Task
	nextID int
}

func newTaskRepository(s *Store, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		s:      s,
		logger: logger,
		tasks:  make(map[int]*model.Task),
		nextID: 1,
	}
}

var errProjectHidden = apperr.NotFound("Project not found or access denied")

// ListForProject returns the tasks of a project owned by callerID, ordered by id.
func (r *TaskRepository) ListForProject(projectID, callerID int) ([]model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.Projects.ownedLocked(projectID, callerID); !ok {
		return nil, errProjectHidden
	}
	return r.listForProjectLocked(projectID), nil
}

func (r *TaskRepository) listForProjectLocked(projectID int) []model.Task {
	out := []model.Task{}
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, cloneTask(t))
		}
	}
	slices.SortFunc(out, func(a, b model.Task) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Create adds a task under a project owned by callerID. assignedTo is stored
// as given; it is not checked against existing users.
func (r *TaskRepository) Create(projectID, callerID int, title string, assignedTo *int) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.Projects.ownedLocked(projectID, callerID)
	if !ok {
		return nil, errProjectHidden
	}
	if title == "" {
		return nil, apperr.InvalidInput("Task title is required")
	}

	t := &model.Task{
		ID:         r.nextID,
		ProjectID:  projectID,
		Title:      title,
		Completed:  false,
		AssignedTo: copyIntPtr(assignedTo),
		CreatedAt:  r.s.now(),
	}
	r.nextID++
	r.tasks[t.ID] = t

	r.s.Notifications.appendLocked(fmt.Sprintf("Task '%s' created in project '%s'", title, p.Name))
	metrics.RecordMutation("task", "create")

	r.logger.Info("Task created",
		zap.Int("task_id", t.ID),
		zap.Int("project_id", projectID),
	)
	c := cloneTask(t)
	return &c, nil
}

// gateLocked resolves a task for a caller: NotFound when the task is missing,
// Forbidden when the caller does not own its project.
func (r *TaskRepository) gateLocked(taskID, callerID int) (*model.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok {
		return nil, apperr.NotFound("Task not found")
	}
	if _, ok := r.s.Projects.ownedLocked(t.ProjectID, callerID); !ok {
		return nil, apperr.Forbidden("Permission denied")
	}
	return t, nil
}

// Update applies the present fields of patch.
func (r *TaskRepository) Update(taskID, callerID int, patch model.TaskPatch) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.gateLocked(taskID, callerID)
	if err != nil {
		return nil, err
	}
	if patch.Title.Set && patch.Title.Value == "" {
		return nil, apperr.InvalidInput("Task title is required")
	}
	if patch.Completed.Null {
		return nil, apperr.InvalidInput("Completed must be true or false")
	}

	t.Title = patch.Title.Or(t.Title)
	t.Completed = patch.Completed.Or(t.Completed)
	if patch.AssignedTo.Set {
		t.AssignedTo = copyIntPtr(patch.AssignedTo.Value)
	}

	r.s.Notifications.appendLocked(fmt.Sprintf("Task '%s' updated", t.Title))
	metrics.RecordMutation("task", "update")

	r.logger.Info("Task updated",
		zap.Int("task_id", taskID),
		zap.Bool("completed", t.Completed),
	)
	c := cloneTask(t)
	return &c, nil
}

// Delete removes a single task. Its comments are left in place.
func (r *TaskRepository) Delete(taskID, callerID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.gateLocked(taskID, callerID); err != nil {
		return err
	}
	delete(r.tasks, taskID)

	r.s.Notifications.appendLocked(fmt.Sprintf("Task ID %d deleted", taskID))
	metrics.RecordMutation("task", "delete")

	r.logger.Info("Task deleted", zap.Int("task_id", taskID))
	return nil
}

// cascadeDeleteForProjectLocked drops every task of projectID without checks or
// notifications. Only ProjectRepository.Delete calls it, after its own gate.
func (r *TaskRepository) cascadeDeleteForProjectLocked(projectID int) int {
	removed := 0
	for id, t := range r.tasks {
		if t.ProjectID == projectID {
			delete(r.tasks, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.RecordMutationN("task", "cascade_delete", removed)
	}
	return removed
}

func cloneTask(t *model.Task) model.Task {
	c := *t
	c.AssignedTo = copyIntPtr(t.AssignedTo)
	return c
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
