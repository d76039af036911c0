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

// OptionsHandler serves the per-assignment AI settings endpoints.
type OptionsHandler struct {
	options  service.OptionsService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewOptionsHandler constructs the handler instance.
func NewOptionsHandler(options service.OptionsService, logger zerolog.Logger) *OptionsHandler {
	return &OptionsHandler{
		options:  options,
		validate: validator.New(),
		logger:   logger.With().Str("component", "options_handler").Logger(),
	}
}

// Register wires the options routes on the assignments group.
func (h *OptionsHandler) Register(router fiber.Router) {
	router.Get("/:assignmentId/options", h.get)
	router.Put("/:assignmentId/options", h.update)
}

func (h *OptionsHandler) get(c *fiber.Ctx) error {
	assignmentID, err := parseParamUint(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	options, err := h.options.Get(c.UserContext(), assignmentID)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch assignment options")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch assignment options")
	}

	return utils.SendSuccess(c, "assignment options retrieved", options)
}

func (h *OptionsHandler) update(c *fiber.Ctx) error {
	assignmentID, err := parseParamUint(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	var req dto.OptionsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "ai_agent and subject are required")
	}

	options, err := h.options.Update(c.UserContext(), assignmentID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		case errors.Is(err, service.ErrUnknownAgent):
			return utils.SendError(c, fiber.StatusBadRequest, "ai agent is not in the configured agent list")
		case errors.Is(err, service.ErrUnknownSubject):
			return utils.SendError(c, fiber.StatusBadRequest, "unknown subject tag")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update assignment options")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update assignment options")
		}
	}

	return utils.SendSuccess(c, "assignment options updated", options)
}
