package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/internal/repository"
)

type buttonTestEnv struct {
	db         *gorm.DB
	service    *buttonStateService
	assignment models.Assignment
}

func newButtonTestEnv(t *testing.T, dbName string, maxAttempts int, gradePass float64) *buttonTestEnv {
	t.Helper()

	db := openTestDB(t, dbName)

	assignment := models.Assignment{
		CourseID:      7,
		Title:         "Essay",
		MaxGrade:      100,
		GradePass:     gradePass,
		GradingMethod: models.GradingMethodRubric,
		MaxAttempts:   maxAttempts,
	}
	require.NoError(t, db.Create(&assignment).Error)
	require.NoError(t, db.Create(&models.AssignmentOptions{
		AssignmentID:        assignment.ID,
		Subject:             "general",
		EnableStudentButton: true,
	}).Error)

	svc := NewButtonStateService(
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewOptionsRepository(db),
		repository.NewJobRepository(db),
		repository.NewGradeRepository(db),
		zerolog.Nop()).(*buttonStateService)

	return &buttonTestEnv{db: db, service: svc, assignment: assignment}
}

func (e *buttonTestEnv) seedSubmission(t *testing.T, status string, attempt int) models.Submission {
	t.Helper()

	submission := models.Submission{
		AssignmentID:  e.assignment.ID,
		UserID:        42,
		AttemptNumber: attempt,
		Status:        status,
		Latest:        true,
	}
	require.NoError(t, e.db.Create(&submission).Error)

	return submission
}

func (e *buttonTestEnv) seedGrade(t *testing.T, value float64) {
	t.Helper()

	grade := models.GradeItem{AssignmentID: e.assignment.ID, UserID: 42, Grade: &value, GraderID: 2}
	require.NoError(t, e.db.Create(&grade).Error)
}

func TestButtonStateDisabledWithoutOption(t *testing.T) {
	db := openTestDB(t, "button_disabled")
	assignment := models.Assignment{CourseID: 7, Title: "Essay", MaxGrade: 100}
	require.NoError(t, db.Create(&assignment).Error)

	svc := NewButtonStateService(
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewOptionsRepository(db),
		repository.NewJobRepository(db),
		repository.NewGradeRepository(db),
		zerolog.Nop())

	state, err := svc.State(context.Background(), assignment.ID, 42)
	require.NoError(t, err)
	require.False(t, state.Enabled)
}

func TestButtonStateRequiresSubmission(t *testing.T) {
	env := newButtonTestEnv(t, "button_no_submission", 1, 0)

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.False(t, state.Enabled)
	require.Equal(t, dto.ButtonSubmitRequired, state.Disposition)
	require.False(t, state.HasSubmission)
}

func TestButtonStateDraftAttemptCountsAsNone(t *testing.T) {
	env := newButtonTestEnv(t, "button_draft", 1, 0)
	env.seedSubmission(t, models.SubmissionStatusNew, 0)

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.Equal(t, dto.ButtonSubmitRequired, state.Disposition)
	require.False(t, state.HasSubmission)
}

func TestButtonStateReadyWithSubmission(t *testing.T) {
	env := newButtonTestEnv(t, "button_ready", 1, 0)
	env.seedSubmission(t, models.SubmissionStatusSubmitted, 0)

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.True(t, state.Enabled)
	require.Equal(t, dto.ButtonReady, state.Disposition)
	require.True(t, state.HasSubmission)
}

func TestButtonStatePassedSingleAttempt(t *testing.T) {
	env := newButtonTestEnv(t, "button_passed", 1, 50)
	env.seedSubmission(t, models.SubmissionStatusGraded, 0)
	env.seedGrade(t, 80)

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.False(t, state.Enabled)
	require.Equal(t, dto.ButtonPassed, state.Disposition)
	require.True(t, state.HasPassed)
}

func TestButtonStatePassedWithRemainingAttempts(t *testing.T) {
	env := newButtonTestEnv(t, "button_passed_retry", 3, 50)
	env.seedSubmission(t, models.SubmissionStatusSubmitted, 1)
	env.seedGrade(t, 80)

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.True(t, state.Enabled)
	require.True(t, state.HasPassed)
	require.NotEqual(t, dto.ButtonPassed, state.Disposition)
}

func TestButtonStateUnlimitedAttemptsNeverLockPassed(t *testing.T) {
	env := newButtonTestEnv(t, "button_unlimited", -1, 50)
	env.seedSubmission(t, models.SubmissionStatusSubmitted, 5)
	env.seedGrade(t, 95)

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.True(t, state.Enabled)
}

func TestButtonStateAIThinkingWhileJobFresh(t *testing.T) {
	env := newButtonTestEnv(t, "button_thinking", 1, 0)
	submission := env.seedSubmission(t, models.SubmissionStatusSubmitted, 0)

	require.NoError(t, env.db.Create(&models.GradingJob{
		SubmissionID: submission.ID,
		Status:       models.JobStatusPending,
	}).Error)

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.False(t, state.Enabled)
	require.Equal(t, dto.ButtonAIThinking, state.Disposition)
}

func TestButtonStateStalePendingJobUnlocks(t *testing.T) {
	env := newButtonTestEnv(t, "button_stale", 1, 0)
	submission := env.seedSubmission(t, models.SubmissionStatusSubmitted, 0)

	require.NoError(t, env.db.Create(&models.GradingJob{
		SubmissionID: submission.ID,
		Status:       models.JobStatusPending,
	}).Error)

	// Pretend the job was last touched 11 minutes ago.
	env.service.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.True(t, state.Enabled)
	require.Equal(t, dto.ButtonReady, state.Disposition)
}

func TestButtonStateFeedbackAvailable(t *testing.T) {
	env := newButtonTestEnv(t, "button_feedback", 1, 0)
	submission := env.seedSubmission(t, models.SubmissionStatusGraded, 0)

	require.NoError(t, env.db.Create(&models.GradingJob{
		SubmissionID: submission.ID,
		Status:       models.JobStatusDone,
	}).Error)

	state, err := env.service.State(context.Background(), env.assignment.ID, 42)
	require.NoError(t, err)
	require.True(t, state.Enabled)
	require.Equal(t, dto.ButtonFeedbackAvailable, state.Disposition)
}

func TestButtonStateUnknownAssignment(t *testing.T) {
	env := newButtonTestEnv(t, "button_unknown", 1, 0)

	_, err := env.service.State(context.Background(), env.assignment.ID+100, 42)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}
