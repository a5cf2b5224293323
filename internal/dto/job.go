package dto

import "time"

// JobRunResponse reports the outcome of a manually triggered job.
type JobRunResponse struct {
	Job       string        `json:"job"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration" swaggertype:"integer"`
	Result    any           `json:"result,omitempty"`
}

// JobListResponse lists the jobs that can be run on demand.
type JobListResponse struct {
	Jobs []string `json:"jobs"`
}
