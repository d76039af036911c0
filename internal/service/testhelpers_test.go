package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/pkg/webhook"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Assignment{}, &models.Submission{},
		&models.RubricDefinition{}, &models.RubricCriterion{}, &models.RubricLevel{},
		&models.GradingInstance{}, &models.RubricFilling{}, &models.GradeItem{},
		&models.AssignmentOptions{}, &models.GradingJob{}, &models.Review{},
	))

	return db
}

// seedRubricAssignment creates a rubric-graded assignment with two criteria.
// The first criterion's levels score 0/5/10, the second 0/5/10, so the rubric
// ceiling is 20.
func seedRubricAssignment(t *testing.T, db *gorm.DB, maxGrade float64) (models.Assignment, models.RubricDefinition) {
	t.Helper()

	assignment := models.Assignment{
		CourseID:      7,
		Title:         "Essay on Go Concurrency",
		MaxGrade:      maxGrade,
		GradingMethod: models.GradingMethodRubric,
		MaxAttempts:   1,
	}
	require.NoError(t, db.Create(&assignment).Error)

	definition := models.RubricDefinition{AssignmentID: assignment.ID, Name: "Essay rubric"}
	require.NoError(t, db.Create(&definition).Error)

	for i := 0; i < 2; i++ {
		criterion := models.RubricCriterion{DefinitionID: definition.ID, Description: fmt.Sprintf("criterion %d", i+1), SortOrder: i}
		require.NoError(t, db.Create(&criterion).Error)
		for _, score := range []float64{0, 5, 10} {
			level := models.RubricLevel{CriterionID: criterion.ID, Score: score}
			require.NoError(t, db.Create(&level).Error)
		}
	}

	var loaded models.RubricDefinition
	require.NoError(t, db.
		Preload("Criteria", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Criteria.Levels").
		First(&loaded, definition.ID).Error)

	return assignment, loaded
}

func levelWithScore(t *testing.T, criterion models.RubricCriterion, score float64) models.RubricLevel {
	t.Helper()

	for _, level := range criterion.Levels {
		if level.Score == score {
			return level
		}
	}
	t.Fatalf("no level with score %v", score)
	return models.RubricLevel{}
}

type fakeWebhookSender struct {
	err      error
	requests []webhook.Request
}

func (f *fakeWebhookSender) Send(_ context.Context, request webhook.Request) error {
	f.requests = append(f.requests, request)
	return f.err
}

type fakeGrader struct {
	result dto.GradeResult
	err    error
	calls  int
	hook   func()
}

func (f *fakeGrader) SaveRubricGrade(_ context.Context, _, _ uint, _ []dto.RubricItem, _ uint) (dto.GradeResult, error) {
	f.calls++
	if f.hook != nil {
		f.hook()
	}
	return f.result, f.err
}
