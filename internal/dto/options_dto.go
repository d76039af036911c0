package dto

import (
	"time"

	"github.com/smartlearn/autograde-api/internal/models"
)

// OptionsUpdateRequest is the teacher settings form payload.
type OptionsUpdateRequest struct {
	SystemMessage       string `json:"system_message"`
	AIAgent             string `json:"ai_agent" validate:"required"`
	Subject             string `json:"subject" validate:"required"`
	EnableStudentButton bool   `json:"enable_student_button"`
	ReviewMode          bool   `json:"review_mode"`
}

// OptionsResponse is the serialized per-assignment settings record.
type OptionsResponse struct {
	AssignmentID        uint      `json:"assignment_id"`
	SystemMessage       string    `json:"system_message"`
	AIAgent             string    `json:"ai_agent"`
	Subject             string    `json:"subject"`
	EnableStudentButton bool      `json:"enable_student_button"`
	ReviewMode          bool      `json:"review_mode"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewOptionsResponse converts a model into a DTO.
func NewOptionsResponse(model models.AssignmentOptions) OptionsResponse {
	return OptionsResponse{
		AssignmentID:        model.AssignmentID,
		SystemMessage:       model.SystemMessage,
		AIAgent:             model.AIAgent,
		Subject:             model.Subject,
		EnableStudentButton: model.EnableStudentButton,
		ReviewMode:          model.ReviewMode,
		UpdatedAt:           model.UpdatedAt,
	}
}
