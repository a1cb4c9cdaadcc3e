package mq

import "time"

// RoutingKeyActivityLogged is published once per notification log entry.
const RoutingKeyActivityLogged = "activity.logged"

// ActivityLoggedPayload mirrors one notification log entry. Seq restarts at 1
// whenever the API process restarts; InstanceID tells the runs apart.
type ActivityLoggedPayload struct {
	InstanceID string    `json:"instance_id"`
	Seq        int       `json:"seq"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
