package models

import "time"

const (
	// GradingMethodRubric marks assignments graded through a rubric definition.
	GradingMethodRubric = "rubric"
	// GradingMethodSimple marks assignments graded with a single numeric score.
	GradingMethodSimple = "simple"
)

// Assignment mirrors the host platform's assignment record for the pieces
// the grading workflow needs: the gradebook scale and the grading method.
type Assignment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CourseID      uint      `gorm:"not null;index" json:"course_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	MaxGrade      float64   `gorm:"not null;default:100" json:"max_grade"`
	GradePass     float64   `gorm:"not null;default:0" json:"grade_pass"`
	GradingMethod string    `gorm:"size:32;not null;default:simple" json:"grading_method"`
	MaxAttempts   int       `gorm:"not null;default:1" json:"max_attempts"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UsesRubric reports whether the assignment is graded with a rubric.
func (a Assignment) UsesRubric() bool {
	return a.GradingMethod == GradingMethodRubric
}
