package models

import "time"

const (
	// SubmissionStatusNew means the student opened but never submitted; treated as no submission.
	SubmissionStatusNew = "new"
	// SubmissionStatusSubmitted means the attempt is ready for grading.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGraded means the attempt has been evaluated.
	SubmissionStatusGraded = "graded"
)

// Submission is one student attempt on an assignment. Only the row flagged
// Latest participates in grading and review lookups.
type Submission struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AssignmentID  uint      `gorm:"not null;index" json:"assignment_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	AttemptNumber int       `gorm:"not null;default:0" json:"attempt_number"`
	Status        string    `gorm:"size:32;not null;default:new" json:"status"`
	Latest        bool      `gorm:"not null;default:false" json:"latest"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsSubmitted reports whether the attempt carries substantive content.
func (s Submission) IsSubmitted() bool {
	return s.Status == SubmissionStatusSubmitted || s.Status == SubmissionStatusGraded
}
