package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/repository"
	"github.com/smartlearn/autograde-api/pkg/webhook"
)

// WebhookSender abstracts the outbound AI workflow call so tests can swap in
// a fake without a listening endpoint.
type WebhookSender interface {
	Send(ctx context.Context, request webhook.Request) error
}

// GradingService orchestrates the AI grading flow: outbound webhook triggers
// and the inbound result path, routed either straight to the gradebook or
// through the teacher review queue.
type GradingService interface {
	TriggerGrading(ctx context.Context, assignmentID uint) (dto.GradeResult, error)
	CheckFeedback(ctx context.Context, req dto.FeedbackCheckRequest) (dto.GradeResult, error)
	SaveRubricGrade(ctx context.Context, assignmentID, userID uint, items []dto.RubricItem, actorID uint) (dto.GradeResult, error)
}

type gradingService struct {
	assignments       repository.AssignmentRepository
	options           repository.OptionsRepository
	webhook           WebhookSender
	grader            RubricGrader
	reviews           ReviewService
	jobs              JobTracker
	reviewModeEnabled bool
	logger            zerolog.Logger
	tracer            trace.Tracer
}

// NewGradingService constructs the orchestrator. reviewModeEnabled is the
// site-level switch; when off, per-assignment review settings are ignored
// and every AI result writes the gradebook directly.
func NewGradingService(assignments repository.AssignmentRepository, options repository.OptionsRepository, sender WebhookSender, grader RubricGrader, reviews ReviewService, jobs JobTracker, reviewModeEnabled bool, logger zerolog.Logger) GradingService {
	return &gradingService{
		assignments:       assignments,
		options:           options,
		webhook:           sender,
		grader:            grader,
		reviews:           reviews,
		jobs:              jobs,
		reviewModeEnabled: reviewModeEnabled,
		logger:            logger.With().Str("component", "grading_service").Logger(),
		tracer:            otel.Tracer("github.com/smartlearn/autograde-api/internal/service/grading_service"),
	}
}

// TriggerGrading asks the AI workflow to grade every submission of an
// assignment. Results come back later through SaveRubricGrade.
func (s *gradingService) TriggerGrading(ctx context.Context, assignmentID uint) (dto.GradeResult, error) {
	ctx, span := s.tracer.Start(ctx, "grading.trigger", trace.WithAttributes(
		attribute.Int64("grading.assignment_id", int64(assignmentID)),
	))
	defer span.End()

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "assignment_not_found")
			return dto.GradeResult{}, ErrAssignmentNotFound
		}
		span.RecordError(err)
		return dto.GradeResult{}, err
	}

	request := webhook.Request{
		Action:       webhook.ActionGrade,
		CourseID:     assignment.CourseID,
		AssignmentID: assignment.ID,
	}
	s.applyOptions(ctx, &request)

	if result, err := s.send(ctx, span, request); err != nil || !result.Success {
		return result, err
	}

	s.logger.Info().Uint("assignment_id", assignmentID).Msg("assignment grading triggered")

	return dto.Success("grading request sent to ai agent"), nil
}

// CheckFeedback forwards a student's feedback request for one submission and
// marks the submission's job pending so the button can show progress.
func (s *gradingService) CheckFeedback(ctx context.Context, req dto.FeedbackCheckRequest) (dto.GradeResult, error) {
	ctx, span := s.tracer.Start(ctx, "grading.check_feedback", trace.WithAttributes(
		attribute.Int64("grading.assignment_id", int64(req.AssignmentID)),
		attribute.Int64("grading.submission_id", int64(req.SubmissionID)),
	))
	defer span.End()

	request := webhook.Request{
		Action:       webhook.ActionCheckFeedback,
		CourseID:     req.CourseID,
		AssignmentID: req.AssignmentID,
		UserID:       req.UserID,
		SubmissionID: req.SubmissionID,
	}
	s.applyOptions(ctx, &request)

	if result, err := s.send(ctx, span, request); err != nil || !result.Success {
		return result, err
	}

	if err := s.jobs.MarkPending(ctx, req.SubmissionID); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", req.SubmissionID).Msg("failed to mark grading job pending")
	}

	s.logger.Info().
		Uint("submission_id", req.SubmissionID).
		Uint("user_id", req.UserID).
		Msg("feedback check triggered")

	return dto.Success("feedback request sent to ai agent"), nil
}

// SaveRubricGrade is the AI result entry point. The destination depends on
// the review gate: direct gradebook write, or a draft for teacher approval.
func (s *gradingService) SaveRubricGrade(ctx context.Context, assignmentID, userID uint, items []dto.RubricItem, actorID uint) (dto.GradeResult, error) {
	ctx, span := s.tracer.Start(ctx, "grading.save_result", trace.WithAttributes(
		attribute.Int64("grading.assignment_id", int64(assignmentID)),
		attribute.Int64("grading.user_id", int64(userID)),
	))
	defer span.End()

	if s.reviewRequired(ctx, assignmentID) {
		span.SetAttributes(attribute.Bool("grading.review_gated", true))
		return s.reviews.SubmitDraft(ctx, assignmentID, userID, items, "")
	}

	return s.grader.SaveRubricGrade(ctx, assignmentID, userID, items, actorID)
}

// reviewRequired applies the two-level gate: the site switch must be on AND
// the assignment must opt in.
func (s *gradingService) reviewRequired(ctx context.Context, assignmentID uint) bool {
	if !s.reviewModeEnabled {
		return false
	}

	options, err := s.options.GetByAssignment(ctx, assignmentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Uint("assignment_id", assignmentID).Msg("failed to load assignment options")
		}
		return false
	}

	return options.ReviewMode
}

// applyOptions enriches the webhook payload with the teacher's per-assignment
// settings. A missing options row leaves the fields empty; the workflow falls
// back to its own defaults.
func (s *gradingService) applyOptions(ctx context.Context, request *webhook.Request) {
	options, err := s.options.GetByAssignment(ctx, request.AssignmentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Uint("assignment_id", request.AssignmentID).Msg("failed to load assignment options")
		}
		return
	}

	request.SystemMessage = options.SystemMessage
	request.PreferredAgent = options.AIAgent
	request.Complexity = options.Subject
}

func (s *gradingService) send(ctx context.Context, span trace.Span, request webhook.Request) (dto.GradeResult, error) {
	err := s.webhook.Send(ctx, request)
	if err == nil {
		return dto.GradeResult{Success: true}, nil
	}

	var statusErr *webhook.StatusError
	switch {
	case errors.Is(err, webhook.ErrNotConfigured):
		span.SetStatus(codes.Error, "webhook_not_configured")
		return dto.Failure("webhook url not configured"), nil
	case errors.As(err, &statusErr):
		span.SetStatus(codes.Error, "webhook_rejected")
		return dto.Failure(fmt.Sprintf("error connecting to ai service: %s", err)), nil
	default:
		span.RecordError(err)
		return dto.Failure(fmt.Sprintf("error connecting to ai service: %s", err)), nil
	}
}
