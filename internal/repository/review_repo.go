package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/models"
)

// ReviewRepository defines data operations for AI review drafts.
type ReviewRepository interface {
	GetByID(ctx context.Context, id uint) (models.Review, error)
	GetPendingBySubmission(ctx context.Context, submissionID uint) (models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Save(ctx context.Context, review *models.Review) error
	ListPending(ctx context.Context) ([]models.Review, error)
	DecideIfPending(ctx context.Context, id uint, status string, graderID uint) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository instantiates the repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return models.Review{}, err
	}

	return review, nil
}

func (r *reviewRepository) GetPendingBySubmission(ctx context.Context, submissionID uint) (models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Where("status = ?", models.ReviewStatusPending).
		First(&review).Error; err != nil {
		return models.Review{}, err
	}

	return review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Save(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) ListPending(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("status = ?", models.ReviewStatusPending).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	return reviews, nil
}

// DecideIfPending flips a pending review to a terminal status with a
// conditional update. It reports false when the row was no longer pending,
// which serializes concurrent decisions on the same review.
func (r *reviewRepository) DecideIfPending(ctx context.Context, id uint, status string, graderID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		Where("status = ?", models.ReviewStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"grader_id":  graderID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
