package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/models"
)

// RubricRepository defines data operations for rubric definitions and
// grading instances.
type RubricRepository interface {
	GetDefinitionByAssignment(ctx context.Context, assignmentID uint) (models.RubricDefinition, error)
	GetInstance(ctx context.Context, definitionID, itemID uint) (models.GradingInstance, error)
	ReplaceInstance(ctx context.Context, instance *models.GradingInstance, fillings []models.RubricFilling) error
	ListFillings(ctx context.Context, instanceID uint) ([]models.RubricFilling, error)
}

type rubricRepository struct {
	db *gorm.DB
}

// NewRubricRepository instantiates the repository.
func NewRubricRepository(db *gorm.DB) RubricRepository {
	return &rubricRepository{db: db}
}

func (r *rubricRepository) GetDefinitionByAssignment(ctx context.Context, assignmentID uint) (models.RubricDefinition, error) {
	var definition models.RubricDefinition
	if err := r.db.WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Criteria.Levels").
		Where("assignment_id = ?", assignmentID).
		First(&definition).Error; err != nil {
		return models.RubricDefinition{}, err
	}

	return definition, nil
}

func (r *rubricRepository) GetInstance(ctx context.Context, definitionID, itemID uint) (models.GradingInstance, error) {
	var instance models.GradingInstance
	if err := r.db.WithContext(ctx).
		Where("definition_id = ?", definitionID).
		Where("item_id = ?", itemID).
		First(&instance).Error; err != nil {
		return models.GradingInstance{}, err
	}

	return instance, nil
}

// ReplaceInstance upserts the single grading instance for the instance's
// (definition, item) pair and replaces all of its fillings in one
// transaction. Prior fillings are deleted, never merged.
func (r *rubricRepository) ReplaceInstance(ctx context.Context, instance *models.GradingInstance, fillings []models.RubricFilling) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.GradingInstance
		err := tx.Where("definition_id = ?", instance.DefinitionID).
			Where("item_id = ?", instance.ItemID).
			First(&existing).Error

		switch {
		case err == nil:
			instance.ID = existing.ID
			instance.CreatedAt = existing.CreatedAt
			if err := tx.Save(instance).Error; err != nil {
				return err
			}
			if err := tx.Where("instance_id = ?", instance.ID).
				Delete(&models.RubricFilling{}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(instance).Error; err != nil {
				return err
			}
		default:
			return err
		}

		for i := range fillings {
			fillings[i].ID = 0
			fillings[i].InstanceID = instance.ID
		}

		if len(fillings) == 0 {
			return nil
		}

		return tx.Create(&fillings).Error
	})
}

func (r *rubricRepository) ListFillings(ctx context.Context, instanceID uint) ([]models.RubricFilling, error) {
	var fillings []models.RubricFilling
	if err := r.db.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("id ASC").
		Find(&fillings).Error; err != nil {
		return nil, err
	}

	return fillings, nil
}
