package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/smartlearn/autograde-api/internal/dto"
	"github.com/smartlearn/autograde-api/internal/handler"
)

type stubReviewService struct {
	pending []dto.PendingReviewResponse
}

func (s stubReviewService) SubmitDraft(context.Context, uint, uint, []dto.RubricItem, string) (dto.GradeResult, error) {
	return dto.GradeResult{}, nil
}

func (s stubReviewService) Decide(context.Context, uint, string, uint) (dto.GradeResult, error) {
	return dto.GradeResult{}, nil
}

func (s stubReviewService) ListPending(context.Context) ([]dto.PendingReviewResponse, error) {
	return s.pending, nil
}

func (s stubReviewService) Get(context.Context, uint) (dto.ReviewResponse, error) {
	return dto.ReviewResponse{}, nil
}

func TestPendingReviewsContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "pending_reviews.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	serviceStub := stubReviewService{pending: []dto.PendingReviewResponse{
		{
			ID:              1,
			AssignmentID:    3,
			AssignmentTitle: "Essay on Go Concurrency",
			CourseID:        7,
			SubmissionID:    11,
			UserID:          42,
			CreatedAt:       time.Now().UTC(),
		},
		{
			ID:              2,
			AssignmentID:    3,
			AssignmentTitle: "Essay on Go Concurrency",
			CourseID:        7,
			SubmissionID:    12,
			UserID:          43,
			CreatedAt:       time.Now().UTC(),
		},
	}}

	reviewHandler := handler.NewReviewHandler(serviceStub, zerolog.Nop())

	app := fiber.New()
	reviewHandler.Register(app.Group("/api/v1/grading/reviews"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grading/reviews/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
