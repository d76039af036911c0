package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartlearn/autograde-api/internal/models"
)

// OptionsRepository defines data operations for per-assignment AI settings.
type OptionsRepository interface {
	GetByAssignment(ctx context.Context, assignmentID uint) (models.AssignmentOptions, error)
	Upsert(ctx context.Context, options *models.AssignmentOptions) error
}

type optionsRepository struct {
	db *gorm.DB
}

// NewOptionsRepository instantiates the repository.
func NewOptionsRepository(db *gorm.DB) OptionsRepository {
	return &optionsRepository{db: db}
}

func (r *optionsRepository) GetByAssignment(ctx context.Context, assignmentID uint) (models.AssignmentOptions, error) {
	var options models.AssignmentOptions
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		First(&options).Error; err != nil {
		return models.AssignmentOptions{}, err
	}

	return options, nil
}

func (r *optionsRepository) Upsert(ctx context.Context, options *models.AssignmentOptions) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assignment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"system_message", "ai_agent", "subject",
			"enable_student_button", "review_mode", "updated_at",
		}),
	}).Create(options).Error
}
