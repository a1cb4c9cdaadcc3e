package repository

import (
	"testing"

	"projecthub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_StatsFor(t *testing.T) {
	s := newTestStore(t)
	alice := mustRegister(t, s, "alice")
	bob := mustRegister(t, s, "bob")

	p, err := s.Projects.Create(alice.ID, "Launch", "")
	require.NoError(t, err)
	_, err = s.Projects.Create(alice.ID, "Empty", "")
	require.NoError(t, err)
	done, err := s.Tasks.Create(p.ID, alice.ID, "done", nil)
	require.NoError(t, err)
	_, err = s.Tasks.Create(p.ID, alice.ID, "open", nil)
	require.NoError(t, err)
	_, err = s.Tasks.Update(done.ID, alice.ID, model.TaskPatch{Completed: model.Some(true)})
	require.NoError(t, err)

	bp, err := s.Projects.Create(bob.ID, "Bob's", "")
	require.NoError(t, err)
	_, err = s.Tasks.Create(bp.ID, bob.ID, "b", nil)
	require.NoError(t, err)

	assert.Equal(t, model.DashboardStats{
		TotalProjects:  2,
		TotalTasks:     2,
		CompletedTasks: 1,
		TotalUsers:     3,
	}, s.Dashboard.StatsFor(alice.ID))

	assert.Equal(t, model.DashboardStats{
		TotalProjects: 1,
		TotalTasks:    1,
		TotalUsers:    3,
	}, s.Dashboard.StatsFor(bob.ID))

	assert.Equal(t, model.DashboardStats{TotalUsers: 3}, s.Dashboard.StatsFor(1))
}
