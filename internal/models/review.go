package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// ReviewStatusPending means the AI draft is waiting for a teacher decision.
	ReviewStatusPending = "pending"
	// ReviewStatusApproved is terminal; the grade was written to the gradebook.
	ReviewStatusApproved = "approved"
	// ReviewStatusRejected is terminal; no gradebook write happened.
	ReviewStatusRejected = "rejected"
)

// Review holds an AI-proposed rubric evaluation awaiting teacher approval.
// GraderID 0 marks an AI-authored draft; on decision it records the acting
// teacher. At most one pending review exists per submission.
type Review struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AssignmentID uint           `gorm:"not null;index" json:"assignment_id"`
	SubmissionID uint           `gorm:"not null;index" json:"submission_id"`
	UserID       uint           `gorm:"not null" json:"user_id"`
	GraderID     uint           `gorm:"not null;default:0" json:"grader_id"`
	RubricData   datatypes.JSON `gorm:"not null" json:"rubric_data"`
	FeedbackText string         `gorm:"type:text" json:"feedback_text"`
	Status       string         `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Assignment   Assignment     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
}

// IsPending reports whether the review can still be decided.
func (r Review) IsPending() bool {
	return r.Status == ReviewStatusPending
}
