package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/observability"
	"github.com/smartlearn/autograde-api/internal/service"
	"github.com/smartlearn/autograde-api/internal/utils"
)

// ReviewHandler serves the teacher review queue endpoints.
type ReviewHandler struct {
	reviews  service.ReviewService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewReviewHandler constructs the handler instance.
func NewReviewHandler(reviews service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:  reviews,
		validate: validator.New(),
		logger:   logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register wires the review routes.
func (h *ReviewHandler) Register(router fiber.Router) {
	router.Get("/", h.listPending)
	router.Get("/:id", h.get)
	router.Post("/:id/decision", h.decide)
}

func (h *ReviewHandler) listPending(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListPending(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pending reviews")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pending reviews")
	}

	return utils.SendSuccess(c, "pending reviews retrieved", reviews)
}

func (h *ReviewHandler) get(c *fiber.Ctx) error {
	reviewID, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid review id")
	}

	review, err := h.reviews.Get(c.UserContext(), reviewID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "review not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch review")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch review")
	}

	return utils.SendSuccess(c, "review retrieved", review)
}

func (h *ReviewHandler) decide(c *fiber.Ctx) error {
	reviewID, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid review id")
	}

	var req dto.ReviewDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "action must be approve or reject")
	}

	result, err := h.reviews.Decide(c.UserContext(), reviewID, req.Action, userIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "review not found")
		case errors.Is(err, service.ErrInvalidAction):
			return utils.SendError(c, fiber.StatusBadRequest, "action must be approve or reject")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to decide review")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to decide review")
		}
	}

	if result.Success {
		observability.ReviewsDecided().WithLabelValues(req.Action).Inc()
	}

	return utils.SendResult(c, result)
}
