package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/internal/repository"
)

// A pending job older than this is treated as abandoned and the button
// becomes clickable again.
const staleJobAge = 10 * time.Minute

// ButtonStateService computes how the student-facing "Check AI Feedback"
// button should render, from submission, job, grade and attempt state.
type ButtonStateService interface {
	State(ctx context.Context, assignmentID, userID uint) (dto.ButtonStateResponse, error)
}

type buttonStateService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	options     repository.OptionsRepository
	jobs        repository.JobRepository
	grades      repository.GradeRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewButtonStateService constructs the service.
func NewButtonStateService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, options repository.OptionsRepository, jobs repository.JobRepository, grades repository.GradeRepository, logger zerolog.Logger) ButtonStateService {
	return &buttonStateService{
		assignments: assignments,
		submissions: submissions,
		options:     options,
		jobs:        jobs,
		grades:      grades,
		logger:      logger.With().Str("component", "button_state_service").Logger(),
		now:         time.Now,
	}
}

func (s *buttonStateService) State(ctx context.Context, assignmentID, userID uint) (dto.ButtonStateResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ButtonStateResponse{}, ErrAssignmentNotFound
		}
		return dto.ButtonStateResponse{}, err
	}

	options, err := s.options.GetByAssignment(ctx, assignmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ButtonStateResponse{}, err
	}
	if !options.EnableStudentButton {
		return dto.ButtonStateResponse{
			Disposition: dto.ButtonSubmitRequired,
			MaxAttempts: assignment.MaxAttempts,
		}, nil
	}

	response := dto.ButtonStateResponse{
		Disposition: dto.ButtonReady,
		MaxAttempts: assignment.MaxAttempts,
	}

	submission, err := s.submissions.GetLatest(ctx, assignmentID, userID)
	switch {
	case err == nil && submission.IsSubmitted():
		response.HasSubmission = true
		response.SubmissionID = submission.ID
		response.SubmissionStatus = submission.Status
		response.AttemptNumber = submission.AttemptNumber
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return dto.ButtonStateResponse{}, err
	}

	if !response.HasSubmission {
		response.Disposition = dto.ButtonSubmitRequired
		return response, nil
	}

	grade, gradeErr := s.grades.Get(ctx, assignmentID, userID)
	if gradeErr != nil && !errors.Is(gradeErr, gorm.ErrRecordNotFound) {
		return dto.ButtonStateResponse{}, gradeErr
	}
	response.IsGraded = gradeErr == nil && grade.IsGraded()
	if response.IsGraded && assignment.GradePass > 0 && *grade.Grade >= assignment.GradePass {
		response.HasPassed = true
	}

	// A passed student with remaining attempts may still request feedback
	// on the newest attempt.
	if response.HasPassed {
		multiAttempt := assignment.MaxAttempts == -1 || assignment.MaxAttempts > 1
		hasChance := assignment.MaxAttempts == -1 || submission.AttemptNumber+1 < assignment.MaxAttempts
		if !multiAttempt || !hasChance {
			response.Disposition = dto.ButtonPassed
			return response, nil
		}
	}

	job, jobErr := s.jobs.GetBySubmission(ctx, submission.ID)
	if jobErr != nil && !errors.Is(jobErr, gorm.ErrRecordNotFound) {
		return dto.ButtonStateResponse{}, jobErr
	}
	if jobErr == nil {
		response.JobStatus = job.Status
		age := s.now().Sub(job.UpdatedAt)
		response.JobAgeSeconds = int64(age.Seconds())

		if job.Status == models.JobStatusPending && age < staleJobAge {
			response.Disposition = dto.ButtonAIThinking
			return response, nil
		}
		if job.Status == models.JobStatusDone && submission.Status == models.SubmissionStatusGraded {
			response.Disposition = dto.ButtonFeedbackAvailable
			response.Enabled = true
			return response, nil
		}
	}

	response.Enabled = true
	return response, nil
}
