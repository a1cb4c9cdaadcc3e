package db

import "time"

// NotificationLog is a row of the notifications_log audit table.
type NotificationLog struct {
	ID         int64     `json:"id"`
	InstanceID string    `json:"instance_id"`
	Seq        int       `json:"seq"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
