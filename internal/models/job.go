package models

import "time"

const (
	// JobStatusPending means a grading or feedback request is with the AI workflow.
	JobStatusPending = "pending"
	// JobStatusDone means an AI result (draft or final) has been persisted.
	JobStatusDone = "done"
)

// GradingJob tracks per-submission AI processing state so front-end buttons
// can poll progress. Advisory only; one row per submission, overwritten in
// place, never deleted.
type GradingJob struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;uniqueIndex" json:"submission_id"`
	Status       string    `gorm:"size:20;not null" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
