package model

import "time"

type Task struct {
	ID         int       `json:"id"`
	ProjectID  int       `json:"project_id"`
	Title      string    `json:"title"`
	Completed  bool      `json:"completed"`
	AssignedTo *int      `json:"assigned_to"` // advisory, never checked against users
	CreatedAt  time.Time `json:"created_at"`
}

// TaskPatch carries a partial task update. AssignedTo may be present with a nil
// value, which clears the assignment.
type TaskPatch struct {
	Title      Optional[string] `json:"title"`
	Completed  Optional[bool]   `json:"completed"`
	AssignedTo Optional[*int]   `json:"assigned_to"`
}
