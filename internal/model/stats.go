package model

// DashboardStats is the per-caller summary served by the dashboard.
// TotalUsers is global; the other counts cover the caller's own projects.
type DashboardStats struct {
	TotalProjects  int `json:"totalProjects"`
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	TotalUsers     int `json:"totalUsers"`
}
