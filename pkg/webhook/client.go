package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned before any network call when no webhook URL
// has been set.
var ErrNotConfigured = fmt.Errorf("webhook url not configured")

// Actions understood by the AI workflow.
const (
	ActionGrade         = "grade"
	ActionCheckFeedback = "check_feedback"
)

// Config contains the target and credentials for the AI workflow webhook.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Request is the JSON body posted to the workflow. The auth token is
// injected by the client; callers never set it.
type Request struct {
	Token          string `json:"token"`
	Action         string `json:"action"`
	CourseID       uint   `json:"courseId"`
	AssignmentID   uint   `json:"assignmentId"`
	UserID         uint   `json:"userId,omitempty"`
	SubmissionID   uint   `json:"submissionId,omitempty"`
	SystemMessage  string `json:"systemMessage"`
	PreferredAgent string `json:"preferredAgent"`
	Complexity     string `json:"complexity"`
}

// StatusError reports a non-200 response from the workflow. Calls are never
// retried; the caller decides whether to surface the failure.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.Code)
}

// Client posts grading requests to the external workflow endpoint.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New constructs a webhook client.
func New(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		url:        cfg.URL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "webhook_client").Logger(),
	}
}

// Send posts the request as JSON. Success means HTTP 200; any other status
// yields a *StatusError carrying the code.
func (c *Client) Send(ctx context.Context, request Request) error {
	if c.url == "" {
		return ErrNotConfigured
	}

	request.Token = c.token

	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("webhook call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Str("action", request.Action).
			Int("status", resp.StatusCode).
			Msg("webhook rejected grading request")
		return &StatusError{Code: resp.StatusCode}
	}

	c.logger.Info().
		Str("action", request.Action).
		Uint("assignment_id", request.AssignmentID).
		Msg("webhook request accepted")

	return nil
}
