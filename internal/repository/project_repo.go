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

type ProjectRepository struct {
	s      *Store
	logger *zap.Logger

	projects map[int]*model.Project
	nextID   int
}

func newProjectRepository(s *Store, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		s:        s,
		logger:   logger,
		projects: make(map[int]*model.Project),
		nextID:   1,
	}
}

// Create stores a new project owned by ownerID.
func (r *ProjectRepository) Create(ownerID int, name, description string) (*model.Project, error) {
	if name == "" {
		return nil, apperr.InvalidInput("Project name is required")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := &model.Project{
		ID:          r.nextID,
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   r.s.now(),
	}
	r.nextID++
	r.projects[p.ID] = p

	r.s.Notifications.appendLocked(fmt.Sprintf("Project '%s' created by user ID %d", name, ownerID))
	metrics.RecordMutation("project", "create")

	r.logger.Info("Project created",
		zap.Int("project_id", p.ID),
		zap.Int("owner_id", ownerID),
	)
	c := *p
	return &c, nil
}

// ListOwnedBy returns the projects owned by ownerID ordered by id. Roles play
// no part here: admins only see their own projects too.
func (r *ProjectRepository) ListOwnedBy(ownerID int) []model.Project {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOwnedByLocked(ownerID)
}

func (r *ProjectRepository) listOwnedByLocked(ownerID int) []model.Project {
	out := []model.Project{}
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	slices.SortFunc(out, func(a, b model.Project) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Get returns a project visible to callerID. A project owned by someone else
// is reported as missing.
func (r *ProjectRepository) Get(projectID, callerID int) (*model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.ownedLocked(projectID, callerID)
	if !ok {
		return nil, apperr.NotFound("Project not found")
	}
	c := *p
	return &c, nil
}

// ownedLocked returns the project only when callerID owns it.
func (r *ProjectRepository) ownedLocked(projectID, callerID int) (*model.Project, bool) {
	p, ok := r.projects[projectID]
	if !ok || p.OwnerID != callerID {
		return nil, false
	}
	return p, true
}

// writableLocked applies the write-path gate: NotFound, then Forbidden.
func (r *ProjectRepository) writableLocked(projectID, callerID int) (*model.Project, error) {
	p, ok := r.projects[projectID]
	if !ok {
		return nil, apperr.NotFound("Project not found")
	}
	if p.OwnerID != callerID {
		return nil, apperr.Forbidden("Permission denied")
	}
	return p, nil
}

// Update applies the present fields of patch.
func (r *ProjectRepository) Update(projectID, callerID int, patch model.ProjectPatch) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, err := r.writableLocked(projectID, callerID)
	if err != nil {
		return nil, err
	}
	if patch.Name.Set && patch.Name.Value == "" {
		return nil, apperr.InvalidInput("Project name is required")
	}

	p.Name = patch.Name.Or(p.Name)
	p.Description = patch.Description.Or(p.Description)

	r.s.Notifications.appendLocked(fmt.Sprintf("Project '%s' updated by user ID %d", p.Name, callerID))
	metrics.RecordMutation("project", "update")

	r.logger.Info("Project updated", zap.Int("project_id", projectID))
	c := *p
	return &c, nil
}

// Delete removes the project and every task under it in one critical section.
// Only the project deletion is notified.
func (r *ProjectRepository) Delete(projectID, callerID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, err := r.writableLocked(projectID, callerID)
	if err != nil {
		return err
	}

	removed := r.s.Tasks.cascadeDeleteForProjectLocked(projectID)
	delete(r.projects, projectID)

	r.s.Notifications.appendLocked(fmt.Sprintf("Project '%s' deleted by user ID %d", p.Name, callerID))
	metrics.RecordMutation("project", "delete")

	r.logger.Info("Project deleted",
		zap.Int("project_id", projectID),
		zap.Int("tasks_removed", removed),
	)
	return nil
}
