package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/internal/repository"
)

// Review decision actions.
const (
	ReviewActionApprove = "approve"
	ReviewActionReject  = "reject"
)

// ReviewService manages the AI draft approval workflow: AI results land as
// pending drafts, and a teacher either approves them into the gradebook or
// rejects them without any grade write.
type ReviewService interface {
	SubmitDraft(ctx context.Context, assignmentID, userID uint, items []dto.RubricItem, feedback string) (dto.GradeResult, error)
	Decide(ctx context.Context, reviewID uint, action string, teacherID uint) (dto.GradeResult, error)
	ListPending(ctx context.Context) ([]dto.PendingReviewResponse, error)
	Get(ctx context.Context, reviewID uint) (dto.ReviewResponse, error)
}

type reviewService struct {
	reviews     repository.ReviewRepository
	submissions repository.SubmissionRepository
	grader      RubricGrader
	jobs        JobTracker
	events      EventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewReviewService constructs the review workflow service.
func NewReviewService(reviews repository.ReviewRepository, submissions repository.SubmissionRepository, grader RubricGrader, jobs JobTracker, events EventPublisher, logger zerolog.Logger) ReviewService {
	return &reviewService{
		reviews:     reviews,
		submissions: submissions,
		grader:      grader,
		jobs:        jobs,
		events:      events,
		logger:      logger.With().Str("component", "review_service").Logger(),
		tracer:      otel.Tracer("github.com/smartlearn/autograde-api/internal/service/review_service"),
	}
}

// SubmitDraft stores an AI evaluation as a pending review instead of writing
// the gradebook. A prior pending draft for the same submission is overwritten
// so the teacher only ever sees the newest AI proposal.
func (s *reviewService) SubmitDraft(ctx context.Context, assignmentID, userID uint, items []dto.RubricItem, feedback string) (dto.GradeResult, error) {
	ctx, span := s.tracer.Start(ctx, "review.submit_draft", trace.WithAttributes(
		attribute.Int64("grading.assignment_id", int64(assignmentID)),
		attribute.Int64("grading.user_id", int64(userID)),
	))
	defer span.End()

	submission, err := s.submissions.GetLatest(ctx, assignmentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.Failure("no submission found for this user to review"), nil
		}
		span.RecordError(err)
		return dto.GradeResult{}, err
	}

	rubricData, err := json.Marshal(items)
	if err != nil {
		span.RecordError(err)
		return dto.GradeResult{}, err
	}

	review, err := s.reviews.GetPendingBySubmission(ctx, submission.ID)
	switch {
	case err == nil:
		review.RubricData = rubricData
		review.FeedbackText = feedback
		review.GraderID = 0
		if err := s.reviews.Save(ctx, &review); err != nil {
			span.RecordError(err)
			return dto.GradeResult{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = models.Review{
			AssignmentID: assignmentID,
			SubmissionID: submission.ID,
			UserID:       userID,
			RubricData:   rubricData,
			FeedbackText: feedback,
			Status:       models.ReviewStatusPending,
		}
		if err := s.reviews.Create(ctx, &review); err != nil {
			span.RecordError(err)
			return dto.GradeResult{}, err
		}
	default:
		span.RecordError(err)
		return dto.GradeResult{}, err
	}

	if err := s.jobs.MarkDone(ctx, submission.ID); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to mark grading job done")
	}

	if s.events != nil {
		s.events.Publish(ctx, GradingEvent{
			Type:         EventReviewSubmitted,
			AssignmentID: assignmentID,
			SubmissionID: submission.ID,
			ReviewID:     review.ID,
			UserID:       userID,
		})
	}

	s.logger.Info().
		Uint("review_id", review.ID).
		Uint("assignment_id", assignmentID).
		Uint("submission_id", submission.ID).
		Msg("review draft stored")

	return dto.Success("ai grading completed and saved as a draft for teacher approval"), nil
}

// Decide resolves a pending review. Approval writes the stored rubric data to
// the gradebook before the status flip; the flip itself is conditional on the
// row still being pending, so a concurrent second decision loses cleanly.
func (s *reviewService) Decide(ctx context.Context, reviewID uint, action string, teacherID uint) (dto.GradeResult, error) {
	ctx, span := s.tracer.Start(ctx, "review.decide", trace.WithAttributes(
		attribute.Int64("review.id", int64(reviewID)),
		attribute.String("review.action", action),
	))
	defer span.End()

	if action != ReviewActionApprove && action != ReviewActionReject {
		return dto.GradeResult{}, ErrInvalidAction
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "review_not_found")
			return dto.GradeResult{}, ErrReviewNotFound
		}
		span.RecordError(err)
		return dto.GradeResult{}, err
	}

	if !review.IsPending() {
		return dto.Failure("this review has already been processed"), nil
	}

	if action == ReviewActionReject {
		decided, err := s.reviews.DecideIfPending(ctx, reviewID, models.ReviewStatusRejected, teacherID)
		if err != nil {
			span.RecordError(err)
			return dto.GradeResult{}, err
		}
		if !decided {
			return dto.Failure("this review has already been processed"), nil
		}

		if s.events != nil {
			s.events.Publish(ctx, GradingEvent{
				Type:         EventReviewRejected,
				AssignmentID: review.AssignmentID,
				SubmissionID: review.SubmissionID,
				ReviewID:     reviewID,
				UserID:       review.UserID,
			})
		}

		s.logger.Info().Uint("review_id", reviewID).Uint("teacher_id", teacherID).Msg("review rejected")

		return dto.Success("review rejected; no grade was saved"), nil
	}

	var items []dto.RubricItem
	if err := json.Unmarshal(review.RubricData, &items); err != nil {
		span.SetStatus(codes.Error, "invalid_rubric_data")
		return dto.Failure("invalid rubric data in review record"), nil
	}

	// Gradebook write happens first. On writer failure the review stays
	// pending so the teacher can retry after fixing the cause.
	result, err := s.grader.SaveRubricGrade(ctx, review.AssignmentID, review.UserID, items, teacherID)
	if err != nil {
		span.RecordError(err)
		return dto.GradeResult{}, err
	}
	if !result.Success {
		span.SetStatus(codes.Error, "grade_write_failed")
		return result, nil
	}

	decided, err := s.reviews.DecideIfPending(ctx, reviewID, models.ReviewStatusApproved, teacherID)
	if err != nil {
		span.RecordError(err)
		return dto.GradeResult{}, err
	}
	if !decided {
		return dto.Failure("this review has already been processed"), nil
	}

	if s.events != nil {
		s.events.Publish(ctx, GradingEvent{
			Type:         EventReviewApproved,
			AssignmentID: review.AssignmentID,
			SubmissionID: review.SubmissionID,
			ReviewID:     reviewID,
			UserID:       review.UserID,
		})
	}

	s.logger.Info().
		Uint("review_id", reviewID).
		Uint("teacher_id", teacherID).
		Msg("review approved and grade written")

	return result, nil
}

func (s *reviewService) ListPending(ctx context.Context) ([]dto.PendingReviewResponse, error) {
	reviews, err := s.reviews.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewPendingReviewResponseSlice(reviews), nil
}

func (s *reviewService) Get(ctx context.Context, reviewID uint) (dto.ReviewResponse, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrReviewNotFound
		}
		return dto.ReviewResponse{}, err
	}

	return dto.NewReviewResponse(review), nil
}
