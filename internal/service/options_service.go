package service

import (
	"context"
	"errors"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartlearn/autograde-api/internal/config"
	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/internal/repository"
)

// OptionsService manages the teacher's per-assignment AI settings.
type OptionsService interface {
	Get(ctx context.Context, assignmentID uint) (dto.OptionsResponse, error)
	Update(ctx context.Context, assignmentID uint, req dto.OptionsUpdateRequest) (dto.OptionsResponse, error)
}

type optionsService struct {
	options     repository.OptionsRepository
	assignments repository.AssignmentRepository
	cfg         config.Config
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewOptionsService constructs the settings service.
func NewOptionsService(options repository.OptionsRepository, assignments repository.AssignmentRepository, cfg config.Config, logger zerolog.Logger) OptionsService {
	return &optionsService{
		options:     options,
		assignments: assignments,
		cfg:         cfg,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "options_service").Logger(),
	}
}

func (s *optionsService) Get(ctx context.Context, assignmentID uint) (dto.OptionsResponse, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OptionsResponse{}, ErrAssignmentNotFound
		}
		return dto.OptionsResponse{}, err
	}

	options, err := s.options.GetByAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OptionsResponse{AssignmentID: assignmentID, Subject: "general"}, nil
		}
		return dto.OptionsResponse{}, err
	}

	return dto.NewOptionsResponse(options), nil
}

// Update validates and stores the settings form. Review mode is forced off
// while the site-level switch is disabled, so a later switch flip does not
// silently resurrect stale per-assignment opt-ins.
func (s *optionsService) Update(ctx context.Context, assignmentID uint, req dto.OptionsUpdateRequest) (dto.OptionsResponse, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OptionsResponse{}, ErrAssignmentNotFound
		}
		return dto.OptionsResponse{}, err
	}

	if !s.cfg.AgentAllowed(req.AIAgent) {
		return dto.OptionsResponse{}, ErrUnknownAgent
	}
	if !models.ValidSubject(req.Subject) {
		return dto.OptionsResponse{}, ErrUnknownSubject
	}

	reviewMode := req.ReviewMode
	if !s.cfg.ReviewModeEnabled {
		reviewMode = false
	}

	options := models.AssignmentOptions{
		AssignmentID:        assignmentID,
		SystemMessage:       s.sanitizer.Sanitize(req.SystemMessage),
		AIAgent:             req.AIAgent,
		Subject:             req.Subject,
		EnableStudentButton: req.EnableStudentButton,
		ReviewMode:          reviewMode,
	}

	if err := s.options.Upsert(ctx, &options); err != nil {
		return dto.OptionsResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignmentID).
		Str("ai_agent", options.AIAgent).
		Bool("review_mode", options.ReviewMode).
		Msg("assignment options updated")

	return dto.NewOptionsResponse(options), nil
}
