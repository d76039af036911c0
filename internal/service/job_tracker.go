package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/internal/repository"
)

// JobTracker records per-submission AI processing state. The status is
// advisory UI state: it never affects grade validity.
type JobTracker interface {
	MarkPending(ctx context.Context, submissionID uint) error
	MarkDone(ctx context.Context, submissionID uint) error
	Status(ctx context.Context, submissionID uint) (dto.JobStatusResponse, error)
}

type jobTracker struct {
	repo     repository.JobRepository
	cache    *redis.Client
	cacheTTL time.Duration
	events   EventPublisher
	logger   zerolog.Logger
}

// NewJobTracker constructs the tracker. The redis client is optional; with
// nil cache every status read hits the database.
func NewJobTracker(repo repository.JobRepository, cache *redis.Client, ttl time.Duration, events EventPublisher, logger zerolog.Logger) JobTracker {
	return &jobTracker{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		events:   events,
		logger:   logger.With().Str("component", "job_tracker").Logger(),
	}
}

func jobCacheKey(submissionID uint) string {
	return fmt.Sprintf("grading:job:%d", submissionID)
}

func (t *jobTracker) MarkPending(ctx context.Context, submissionID uint) error {
	return t.mark(ctx, submissionID, models.JobStatusPending, EventJobPending)
}

func (t *jobTracker) MarkDone(ctx context.Context, submissionID uint) error {
	return t.mark(ctx, submissionID, models.JobStatusDone, EventJobDone)
}

func (t *jobTracker) mark(ctx context.Context, submissionID uint, status, eventType string) error {
	job, err := t.repo.Upsert(ctx, submissionID, status)
	if err != nil {
		return err
	}

	t.cacheStatus(ctx, dto.JobStatusResponse{
		SubmissionID: job.SubmissionID,
		Status:       job.Status,
		UpdatedAt:    job.UpdatedAt,
	})

	if t.events != nil {
		t.events.Publish(ctx, GradingEvent{Type: eventType, SubmissionID: submissionID})
	}

	t.logger.Info().Uint("submission_id", submissionID).Str("status", status).Msg("job status updated")

	return nil
}

func (t *jobTracker) Status(ctx context.Context, submissionID uint) (dto.JobStatusResponse, error) {
	if t.cache != nil {
		if cached, err := t.cache.Get(ctx, jobCacheKey(submissionID)).Result(); err == nil {
			var response dto.JobStatusResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			t.logger.Warn().Err(err).Msg("failed to read job status cache")
		}
	}

	job, err := t.repo.GetBySubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JobStatusResponse{}, ErrJobNotFound
		}
		return dto.JobStatusResponse{}, err
	}

	response := dto.JobStatusResponse{
		SubmissionID: job.SubmissionID,
		Status:       job.Status,
		UpdatedAt:    job.UpdatedAt,
	}
	t.cacheStatus(ctx, response)

	return response, nil
}

func (t *jobTracker) cacheStatus(ctx context.Context, status dto.JobStatusResponse) {
	if t.cache == nil {
		return
	}

	payload, err := json.Marshal(status)
	if err != nil {
		return
	}

	if err := t.cache.Set(ctx, jobCacheKey(status.SubmissionID), payload, t.cacheTTL).Err(); err != nil {
		t.logger.Warn().Err(err).Msg("failed to store job status cache")
	}
}
