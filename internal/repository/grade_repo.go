package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/models"
)

// GradeRepository defines data operations for gradebook grade rows.
type GradeRepository interface {
	Get(ctx context.Context, assignmentID, userID uint) (models.GradeItem, error)
	GetOrCreate(ctx context.Context, assignmentID, userID uint) (models.GradeItem, error)
	Update(ctx context.Context, grade *models.GradeItem) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) Get(ctx context.Context, assignmentID, userID uint) (models.GradeItem, error) {
	var grade models.GradeItem
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("user_id = ?", userID).
		First(&grade).Error; err != nil {
		return models.GradeItem{}, err
	}

	return grade, nil
}

func (r *gradeRepository) GetOrCreate(ctx context.Context, assignmentID, userID uint) (models.GradeItem, error) {
	var grade models.GradeItem
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("user_id = ?", userID).
		First(&grade).Error
	if err == nil {
		return grade, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.GradeItem{}, err
	}

	grade = models.GradeItem{AssignmentID: assignmentID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&grade).Error; err != nil {
		return models.GradeItem{}, err
	}

	return grade, nil
}

func (r *gradeRepository) Update(ctx context.Context, grade *models.GradeItem) error {
	return r.db.WithContext(ctx).Save(grade).Error
}
