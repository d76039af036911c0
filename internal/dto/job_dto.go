package dto

import "time"

// JobStatusResponse is the polling payload for a submission's AI job.
type JobStatusResponse struct {
	SubmissionID uint      `json:"submission_id"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Button dispositions derived from submission, job and grade state.
const (
	ButtonSubmitRequired    = "submit_required"
	ButtonPassed            = "passed"
	ButtonFeedbackAvailable = "feedback_available"
	ButtonAIThinking        = "ai_thinking"
	ButtonReady             = "ready"
)

// ButtonStateResponse tells the front end how to render the student
// "Check AI Feedback" button.
type ButtonStateResponse struct {
	Enabled          bool   `json:"enabled"`
	Disposition      string `json:"disposition"`
	HasSubmission    bool   `json:"has_submission"`
	SubmissionID     uint   `json:"submission_id"`
	SubmissionStatus string `json:"submission_status"`
	JobStatus        string `json:"job_status"`
	JobAgeSeconds    int64  `json:"job_age_seconds"`
	IsGraded         bool   `json:"is_graded"`
	HasPassed        bool   `json:"has_passed"`
	AttemptNumber    int    `json:"attempt_number"`
	MaxAttempts      int    `json:"max_attempts"`
}
