package dto

import (
	"encoding/json"
	"fmt"
)

// RubricItem is one AI-proposed selection: a criterion, the chosen level,
// and an optional remark. Items missing either id are dropped at the
// persistence boundary rather than rejected wholesale.
type RubricItem struct {
	CriterionID uint   `json:"criterion_id"`
	LevelID     uint   `json:"level_id"`
	Remark      string `json:"remark"`
}

// Valid reports whether the item carries both identifiers.
func (i RubricItem) Valid() bool {
	return i.CriterionID > 0 && i.LevelID > 0
}

// RubricItems accepts either a JSON array or a JSON-string-encoded array,
// matching what the AI workflow posts back.
type RubricItems []RubricItem

// UnmarshalJSON decodes the dual wire format. Anything that does not
// resolve to a list is an error.
func (r *RubricItems) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		data = []byte(encoded)
	}

	var items []RubricItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("rubric_items must be a JSON array: %w", err)
	}

	*r = items
	return nil
}

// TriggerGradingRequest asks the AI workflow to grade a whole assignment.
type TriggerGradingRequest struct {
	AssignmentID uint `json:"assignment_id" validate:"required"`
}

// FeedbackCheckRequest is the student-side feedback poll trigger.
type FeedbackCheckRequest struct {
	AssignmentID uint `json:"assignment_id" validate:"required"`
	CourseID     uint `json:"course_id" validate:"required"`
	UserID       uint `json:"user_id" validate:"required"`
	SubmissionID uint `json:"submission_id" validate:"required"`
}

// SaveRubricGradeRequest carries AI-proposed scores for one student.
type SaveRubricGradeRequest struct {
	AssignmentID uint        `json:"assignment_id" validate:"required"`
	UserID       uint        `json:"user_id" validate:"required"`
	RubricItems  RubricItems `json:"rubric_items" validate:"required"`
}

// GradeResult is the uniform outcome envelope for grading operations.
// Domain failures travel here as Success=false, not as transport errors.
type GradeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Failure builds a failed result with the given message.
func Failure(message string) GradeResult {
	return GradeResult{Success: false, Message: message}
}

// Success builds a successful result with the given message.
func Success(message string) GradeResult {
	return GradeResult{Success: true, Message: message}
}

// Successf builds a successful result with a formatted message.
func Successf(format string, args ...interface{}) GradeResult {
	return GradeResult{Success: true, Message: fmt.Sprintf(format, args...)}
}
