package dto

import (
	"encoding/json"
	"time"

	"github.com/smartlearn/autograde-api/internal/models"
)

// ReviewDecisionRequest is the teacher's approve/reject action.
type ReviewDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// ReviewResponse is the serialized detail view of a review draft.
type ReviewResponse struct {
	ID           uint         `json:"id"`
	AssignmentID uint         `json:"assignment_id"`
	SubmissionID uint         `json:"submission_id"`
	UserID       uint         `json:"user_id"`
	GraderID     uint         `json:"grader_id"`
	Status       string       `json:"status"`
	RubricItems  []RubricItem `json:"rubric_items"`
	FeedbackText string       `json:"feedback_text"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// PendingReviewResponse is one row of the teacher review dashboard.
type PendingReviewResponse struct {
	ID              uint      `json:"id"`
	AssignmentID    uint      `json:"assignment_id"`
	AssignmentTitle string    `json:"assignment_title"`
	CourseID        uint      `json:"course_id"`
	SubmissionID    uint      `json:"submission_id"`
	UserID          uint      `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewReviewResponse converts a model into a DTO. Undecodable rubric data
// yields an empty item list; the detail view is display-only.
func NewReviewResponse(model models.Review) ReviewResponse {
	var items []RubricItem
	_ = json.Unmarshal(model.RubricData, &items)

	return ReviewResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		SubmissionID: model.SubmissionID,
		UserID:       model.UserID,
		GraderID:     model.GraderID,
		Status:       model.Status,
		RubricItems:  items,
		FeedbackText: model.FeedbackText,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewPendingReviewResponse converts a model with its preloaded assignment.
func NewPendingReviewResponse(model models.Review) PendingReviewResponse {
	return PendingReviewResponse{
		ID:              model.ID,
		AssignmentID:    model.AssignmentID,
		AssignmentTitle: model.Assignment.Title,
		CourseID:        model.Assignment.CourseID,
		SubmissionID:    model.SubmissionID,
		UserID:          model.UserID,
		CreatedAt:       model.CreatedAt,
	}
}

// NewPendingReviewResponseSlice converts a slice of models into DTOs.
func NewPendingReviewResponseSlice(reviews []models.Review) []PendingReviewResponse {
	responses := make([]PendingReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, NewPendingReviewResponse(review))
	}

	return responses
}
