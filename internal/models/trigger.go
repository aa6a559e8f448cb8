package models

import "time"

// TriggerRequest asks the scheduling engine to run a job once, outside its schedule.
type TriggerRequest struct {
	RequestID   string    `json:"request_id"`
	JobID       int64     `json:"job_id"`
	JobName     string    `json:"job_name"`
	AppName     string    `json:"app_name"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}
