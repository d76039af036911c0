package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/internal/repository"
)

// RubricGrader converts AI-proposed rubric selections into a committed
// gradebook grade. Domain failures come back as a failed GradeResult; an
// error return is reserved for unexpected storage faults.
type RubricGrader interface {
	SaveRubricGrade(ctx context.Context, assignmentID, userID uint, items []dto.RubricItem, graderID uint) (dto.GradeResult, error)
}

type rubricGrader struct {
	assignments    repository.AssignmentRepository
	rubrics        repository.RubricRepository
	grades         repository.GradeRepository
	systemGraderID uint
	sanitizer      *bluemonday.Policy
	logger         zerolog.Logger
	tracer         trace.Tracer
}

// NewRubricGrader constructs the grade writer. systemGraderID is the
// fallback account that owns AI-authored grades.
func NewRubricGrader(assignments repository.AssignmentRepository, rubrics repository.RubricRepository, grades repository.GradeRepository, systemGraderID uint, logger zerolog.Logger) RubricGrader {
	return &rubricGrader{
		assignments:    assignments,
		rubrics:        rubrics,
		grades:         grades,
		systemGraderID: systemGraderID,
		sanitizer:      bluemonday.UGCPolicy(),
		logger:         logger.With().Str("component", "rubric_grader").Logger(),
		tracer:         otel.Tracer("github.com/smartlearn/autograde-api/internal/service/rubric_grader"),
	}
}

func (g *rubricGrader) SaveRubricGrade(ctx context.Context, assignmentID, userID uint, items []dto.RubricItem, graderID uint) (dto.GradeResult, error) {
	ctx, span := g.tracer.Start(ctx, "grading.save_rubric", trace.WithAttributes(
		attribute.Int64("grading.assignment_id", int64(assignmentID)),
		attribute.Int64("grading.user_id", int64(userID)),
		attribute.Int64("grading.grader_id", int64(graderID)),
	))
	defer span.End()

	assignment, err := g.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "assignment_not_found")
			return dto.Failure(fmt.Sprintf("assignment %d not found", assignmentID)), nil
		}
		span.RecordError(err)
		return dto.GradeResult{}, err
	}

	definition, err := g.rubrics.GetDefinitionByAssignment(ctx, assignmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		return dto.GradeResult{}, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || !assignment.UsesRubric() {
		span.SetStatus(codes.Error, "no_rubric_controller")
		return dto.Failure(fmt.Sprintf(
			"no active grading controller found: grading method for assignment %d is not set to rubric", assignmentID)), nil
	}

	// Malformed entries are dropped here, never rejected wholesale.
	valid := make([]dto.RubricItem, 0, len(items))
	for _, item := range items {
		if item.Valid() {
			valid = append(valid, item)
		}
	}

	grade, err := g.grades.GetOrCreate(ctx, assignmentID, userID)
	if err != nil {
		span.RecordError(err)
		return dto.GradeResult{}, err
	}

	raterID := graderID
	if raterID == 0 {
		raterID = g.systemGraderID
	}

	levelScores := definition.LevelScores()
	var rawTotal float64
	fillings := make([]models.RubricFilling, 0, len(valid))
	for _, item := range valid {
		fillings = append(fillings, models.RubricFilling{
			CriterionID: item.CriterionID,
			LevelID:     item.LevelID,
			Remark:      g.sanitizer.Sanitize(item.Remark),
		})
		rawTotal += levelScores[item.LevelID]
	}

	instance := models.GradingInstance{
		DefinitionID: definition.ID,
		ItemID:       grade.ID,
		RaterID:      raterID,
		RawGrade:     &rawTotal,
	}

	if err := g.rubrics.ReplaceInstance(ctx, &instance, fillings); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "instance_write_failed")
		return dto.Failure(fmt.Sprintf("error saving grade: %s", err)), nil
	}

	rubricMax := definition.MaxScore()
	finalGrade := rawTotal
	if rubricMax > 0 && assignment.MaxGrade > 0 {
		finalGrade = rawTotal / rubricMax * assignment.MaxGrade
	}

	grade.Grade = &finalGrade
	grade.GraderID = raterID

	if err := g.grades.Update(ctx, &grade); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gradebook_write_failed")
		return dto.Failure(fmt.Sprintf("error saving grade: %s", err)), nil
	}

	span.SetAttributes(
		attribute.Float64("grading.raw_total", rawTotal),
		attribute.Float64("grading.final_grade", finalGrade),
		attribute.Int("grading.filling_count", len(fillings)),
	)

	g.logger.Info().
		Uint("assignment_id", assignmentID).
		Uint("user_id", userID).
		Uint("rater_id", raterID).
		Float64("final_grade", finalGrade).
		Msg("rubric grade saved")

	return dto.Successf("rubric grade saved: %.2f/%.2f", finalGrade, assignment.MaxGrade), nil
}
