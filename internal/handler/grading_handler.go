package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/service"
	"github.com/smartlearn/autograde-api/internal/utils"
)

// GradingHandler serves the AI grading trigger and result endpoints.
type GradingHandler struct {
	grading  service.GradingService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewGradingHandler constructs the handler instance.
func NewGradingHandler(grading service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		grading:  grading,
		validate: validator.New(),
		logger:   logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register wires the grading routes. The guards apply per route because
// both routes live on the shared grading group.
func (h *GradingHandler) Register(router fiber.Router, teacherOnly fiber.Handler, workflowOnly fiber.Handler) {
	router.Post("/trigger", guardOrNext(teacherOnly), h.trigger)
	router.Post("/rubric-grades", guardOrNext(workflowOnly), h.saveGrade)
}

func (h *GradingHandler) trigger(c *fiber.Ctx) error {
	var req dto.TriggerGradingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "assignment_id is required")
	}

	result, err := h.grading.TriggerGrading(c.UserContext(), req.AssignmentID)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to trigger grading")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to trigger grading")
	}

	return utils.SendResult(c, result)
}

func (h *GradingHandler) saveGrade(c *fiber.Ctx) error {
	var req dto.SaveRubricGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "assignment_id, user_id and rubric_items are required")
	}

	result, err := h.grading.SaveRubricGrade(c.UserContext(), req.AssignmentID, req.UserID, req.RubricItems, userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save rubric grade")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save rubric grade")
	}

	return utils.SendResult(c, result)
}
