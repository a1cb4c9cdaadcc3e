package repository

import "projecthub/internal/model"

// Dashboard computes read-only summaries across the stores.
type Dashboard struct {
	s *Store
}

// StatsFor counts the caller's projects and their tasks. TotalUsers is global.
func (d *Dashboard) StatsFor(callerID int) model.DashboardStats {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	owned := make(map[int]struct{})
	for _, p := range d.s.Projects.projects {
		if p.OwnerID == callerID {
			owned[p.ID] = struct{}{}
		}
	}

	stats := model.DashboardStats{
		TotalProjects: len(owned),
		TotalUsers:    d.s.Users.countLocked(),
	}
	for _, t := range d.s.Tasks.tasks {
		if _, ok := owned[t.ProjectID]; !ok {
			continue
		}
		stats.TotalTasks++
		if t.Completed {
			stats.CompletedTasks++
		}
	}
	return stats
}
