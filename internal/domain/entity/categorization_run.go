package entity

import "time"

// Run status
const (
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
)

// Run triggers
const (
	TriggerAction = "action"
	TriggerPoll   = "poll"
)

// CategorizationRun is the audit record of one fetch-and-categorize run
type CategorizationRun struct {
	RunID          string    `json:"runId" bson:"runId"`
	Trigger        string    `json:"trigger" bson:"trigger"`
	Status         string    `json:"status" bson:"status"`
	EmailIDs       []string  `json:"emailIds" bson:"emailIds"`
	EmailCount     int       `json:"emailCount" bson:"emailCount"`
	ErrorDetail    string    `json:"errorDetail,omitempty" bson:"errorDetail,omitempty"`
	Categorization string    `json:"categorization,omitempty" bson:"categorization,omitempty"` // raw JSON from the categorization service
	StartedAt      time.Time `json:"startedAt" bson:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt" bson:"finishedAt"`
}

// Duration is how long the run took
func (r *CategorizationRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
