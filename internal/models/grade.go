package models

import "time"

// GradeItem is the gradebook grade row for one (assignment, user) pair.
// A nil Grade means the student has not been graded yet.
type GradeItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_grade_assignment_user" json:"assignment_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_grade_assignment_user" json:"user_id"`
	Grade        *float64  `json:"grade"`
	GraderID     uint      `gorm:"not null;default:0" json:"grader_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsGraded reports whether a grade has been committed.
func (g GradeItem) IsGraded() bool {
	return g.Grade != nil && *g.Grade >= 0
}
