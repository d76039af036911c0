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

// FeedbackHandler serves the student-facing feedback endpoints: the check
// trigger, job status polling, and the button state query.
type FeedbackHandler struct {
	grading  service.GradingService
	jobs     service.JobTracker
	button   service.ButtonStateService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewFeedbackHandler constructs the handler instance.
func NewFeedbackHandler(grading service.GradingService, jobs service.JobTracker, button service.ButtonStateService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		grading:  grading,
		jobs:     jobs,
		button:   button,
		validate: validator.New(),
		logger:   logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// Register wires the feedback routes behind the route-level role guard.
func (h *FeedbackHandler) Register(router fiber.Router, guard fiber.Handler) {
	router.Post("/feedback-check", guardOrNext(guard), h.check)
	router.Get("/jobs/:submissionId", guardOrNext(guard), h.jobStatus)
	router.Get("/button-state", guardOrNext(guard), h.buttonState)
}

func (h *FeedbackHandler) check(c *fiber.Ctx) error {
	var req dto.FeedbackCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "assignment_id, course_id, user_id and submission_id are required")
	}

	result, err := h.grading.CheckFeedback(c.UserContext(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to request feedback check")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to request feedback check")
	}

	return utils.SendResult(c, result)
}

func (h *FeedbackHandler) jobStatus(c *fiber.Ctx) error {
	submissionID, err := parseParamUint(c, "submissionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	status, err := h.jobs.Status(c.UserContext(), submissionID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "no grading job for submission")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to read job status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to read job status")
	}

	return utils.SendSuccess(c, "job status retrieved", status)
}

func (h *FeedbackHandler) buttonState(c *fiber.Ctx) error {
	assignmentID, err := parseQueryUint(c, "assignment_id")
	if err != nil || assignmentID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	userID, err := parseQueryUint(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if userID == 0 {
		userID = userIDFromContext(c)
	}
	if userID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "user id is required")
	}

	state, err := h.button.State(c.UserContext(), assignmentID, userID)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute button state")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute button state")
	}

	return utils.SendSuccess(c, "button state retrieved", state)
}
