package models

import "time"

// SubjectTags enumerates the per-assignment subject/complexity tags the AI
// workflow understands.
var SubjectTags = []string{"general", "math", "programming", "medical", "science", "law", "creative"}

// AssignmentOptions stores the teacher's per-assignment AI preferences.
type AssignmentOptions struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	AssignmentID        uint      `gorm:"not null;uniqueIndex" json:"assignment_id"`
	SystemMessage       string    `gorm:"type:text" json:"system_message"`
	AIAgent             string    `gorm:"size:64" json:"ai_agent"`
	Subject             string    `gorm:"size:32;default:general" json:"subject"`
	EnableStudentButton bool      `gorm:"not null;default:false" json:"enable_student_button"`
	ReviewMode          bool      `gorm:"not null;default:false" json:"review_mode"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ValidSubject reports whether the tag is one of the known subjects.
func ValidSubject(tag string) bool {
	for _, known := range SubjectTags {
		if known == tag {
			return true
		}
	}
	return false
}
