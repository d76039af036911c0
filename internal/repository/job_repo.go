package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartlearn/autograde-api/internal/models"
)

// JobRepository defines data operations for per-submission AI job state.
type JobRepository interface {
	GetBySubmission(ctx context.Context, submissionID uint) (models.GradingJob, error)
	Upsert(ctx context.Context, submissionID uint, status string) (models.GradingJob, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository instantiates the repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) GetBySubmission(ctx context.Context, submissionID uint) (models.GradingJob, error) {
	var job models.GradingJob
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&job).Error; err != nil {
		return models.GradingJob{}, err
	}

	return job, nil
}

func (r *jobRepository) Upsert(ctx context.Context, submissionID uint, status string) (models.GradingJob, error) {
	job := models.GradingJob{SubmissionID: submissionID, Status: status}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&job).Error; err != nil {
		return models.GradingJob{}, err
	}

	return r.GetBySubmission(ctx, submissionID)
}
