package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/internal/repository"
	"github.com/smartlearn/autograde-api/pkg/webhook"
)

type gormEnv struct {
	db   *gorm.DB
	jobs JobTracker
}

func newGradingService(t *testing.T, dbName string, reviewModeEnabled bool) (GradingService, *fakeWebhookSender, *fakeGrader, *gormEnv) {
	t.Helper()

	db := openTestDB(t, dbName)
	sender := &fakeWebhookSender{}
	grader := &fakeGrader{result: dto.Success("rubric grade saved: 75.00/100.00")}
	jobs := NewJobTracker(repository.NewJobRepository(db), nil, 0, nil, zerolog.Nop())
	reviews := NewReviewService(repository.NewReviewRepository(db), repository.NewSubmissionRepository(db), grader, jobs, nil, zerolog.Nop())

	svc := NewGradingService(
		repository.NewAssignmentRepository(db),
		repository.NewOptionsRepository(db),
		sender, grader, reviews, jobs, reviewModeEnabled, zerolog.Nop())

	return svc, sender, grader, &gormEnv{db: db, jobs: jobs}
}

func TestGradingServiceTriggerUnknownAssignment(t *testing.T) {
	svc, sender, _, _ := newGradingService(t, "grading_trigger_missing", false)

	_, err := svc.TriggerGrading(context.Background(), 9999)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
	require.Empty(t, sender.requests)
}

func TestGradingServiceTriggerSendsOptionsPayload(t *testing.T) {
	svc, sender, _, env := newGradingService(t, "grading_trigger_options", false)

	assignment := models.Assignment{CourseID: 7, Title: "Essay", MaxGrade: 100, GradingMethod: models.GradingMethodRubric}
	require.NoError(t, env.db.Create(&assignment).Error)
	require.NoError(t, env.db.Create(&models.AssignmentOptions{
		AssignmentID:  assignment.ID,
		SystemMessage: "grade kindly",
		AIAgent:       "Claude",
		Subject:       "programming",
	}).Error)

	result, err := svc.TriggerGrading(context.Background(), assignment.ID)
	require.NoError(t, err)
	require.True(t, result.Success)

	require.Len(t, sender.requests, 1)
	sent := sender.requests[0]
	require.Equal(t, webhook.ActionGrade, sent.Action)
	require.Equal(t, uint(7), sent.CourseID)
	require.Equal(t, assignment.ID, sent.AssignmentID)
	require.Equal(t, "grade kindly", sent.SystemMessage)
	require.Equal(t, "Claude", sent.PreferredAgent)
	require.Equal(t, "programming", sent.Complexity)
}

func TestGradingServiceTriggerWithoutWebhookURL(t *testing.T) {
	svc, sender, _, env := newGradingService(t, "grading_trigger_nourl", false)
	sender.err = webhook.ErrNotConfigured

	assignment := models.Assignment{CourseID: 7, Title: "Essay", MaxGrade: 100}
	require.NoError(t, env.db.Create(&assignment).Error)

	result, err := svc.TriggerGrading(context.Background(), assignment.ID)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "webhook url not configured", result.Message)
}

func TestGradingServiceTriggerWebhookRejected(t *testing.T) {
	svc, sender, _, env := newGradingService(t, "grading_trigger_rejected", false)
	sender.err = &webhook.StatusError{Code: 500}

	assignment := models.Assignment{CourseID: 7, Title: "Essay", MaxGrade: 100}
	require.NoError(t, env.db.Create(&assignment).Error)

	result, err := svc.TriggerGrading(context.Background(), assignment.ID)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Contains(t, result.Message, "error connecting to ai service")
	require.Contains(t, result.Message, "500")
}

func TestGradingServiceCheckFeedbackMarksJobPending(t *testing.T) {
	svc, sender, _, env := newGradingService(t, "grading_feedback", false)

	req := dto.FeedbackCheckRequest{AssignmentID: 3, CourseID: 7, UserID: 42, SubmissionID: 11}
	result, err := svc.CheckFeedback(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Success)

	require.Len(t, sender.requests, 1)
	require.Equal(t, webhook.ActionCheckFeedback, sender.requests[0].Action)
	require.Equal(t, uint(11), sender.requests[0].SubmissionID)

	status, err := env.jobs.Status(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusPending, status.Status)
}

func TestGradingServiceCheckFeedbackFailureSkipsJob(t *testing.T) {
	svc, sender, _, env := newGradingService(t, "grading_feedback_fail", false)
	sender.err = &webhook.StatusError{Code: 502}

	req := dto.FeedbackCheckRequest{AssignmentID: 3, CourseID: 7, UserID: 42, SubmissionID: 11}
	result, err := svc.CheckFeedback(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.Success)

	_, err = env.jobs.Status(context.Background(), 11)
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestGradingServiceSaveGradeDirectWhenReviewModeOff(t *testing.T) {
	svc, _, grader, env := newGradingService(t, "grading_save_direct", false)

	assignment := models.Assignment{CourseID: 7, Title: "Essay", MaxGrade: 100, GradingMethod: models.GradingMethodRubric}
	require.NoError(t, env.db.Create(&assignment).Error)
	// Per-assignment opt-in is ignored while the site switch is off.
	require.NoError(t, env.db.Create(&models.AssignmentOptions{AssignmentID: assignment.ID, ReviewMode: true, Subject: "general"}).Error)

	items := []dto.RubricItem{{CriterionID: 1, LevelID: 2}}
	result, err := svc.SaveRubricGrade(context.Background(), assignment.ID, 42, items, 0)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1, grader.calls)

	var count int64
	require.NoError(t, env.db.Model(&models.Review{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGradingServiceSaveGradeGatedIntoReview(t *testing.T) {
	svc, _, grader, env := newGradingService(t, "grading_save_gated", true)

	assignment := models.Assignment{CourseID: 7, Title: "Essay", MaxGrade: 100, GradingMethod: models.GradingMethodRubric}
	require.NoError(t, env.db.Create(&assignment).Error)
	require.NoError(t, env.db.Create(&models.AssignmentOptions{AssignmentID: assignment.ID, ReviewMode: true, Subject: "general"}).Error)
	require.NoError(t, env.db.Create(&models.Submission{
		AssignmentID: assignment.ID, UserID: 42,
		Status: models.SubmissionStatusSubmitted, Latest: true,
	}).Error)

	items := []dto.RubricItem{{CriterionID: 1, LevelID: 2}}
	result, err := svc.SaveRubricGrade(context.Background(), assignment.ID, 42, items, 0)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Contains(t, result.Message, "draft")
	require.Zero(t, grader.calls)

	var review models.Review
	require.NoError(t, env.db.Where("assignment_id = ?", assignment.ID).First(&review).Error)
	require.Equal(t, models.ReviewStatusPending, review.Status)
}
