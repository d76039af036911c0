package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Grading lifecycle event types.
const (
	EventJobPending      = "job.pending"
	EventJobDone         = "job.done"
	EventReviewSubmitted = "review.submitted"
	EventReviewApproved  = "review.approved"
	EventReviewRejected  = "review.rejected"
)

// GradingEvent is the fan-out payload for grading lifecycle changes.
type GradingEvent struct {
	Type         string    `json:"type"`
	AssignmentID uint      `json:"assignment_id,omitempty"`
	SubmissionID uint      `json:"submission_id,omitempty"`
	ReviewID     uint      `json:"review_id,omitempty"`
	UserID       uint      `json:"user_id,omitempty"`
	Source       string    `json:"source"`
	SentAt       time.Time `json:"sent_at"`
}

// EventPublisher broadcasts grading lifecycle events to interested
// consumers. Publishing is best-effort; failures never reach callers.
type EventPublisher interface {
	Publish(ctx context.Context, event GradingEvent)
}

type brokerEventPublisher struct {
	redis       *redis.Client
	redisChan   string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	nodeID      string
}

// NewEventPublisher constructs a publisher over redis pub/sub and NATS.
// Either client may be nil; publishing then skips that transport.
func NewEventPublisher(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) EventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &brokerEventPublisher{
		redis:       redisClient,
		redisChan:   channel,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "event_publisher").Logger(),
		nodeID:      uuid.NewString(),
	}
}

func (p *brokerEventPublisher) Publish(ctx context.Context, event GradingEvent) {
	event.Source = p.nodeID
	event.SentAt = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to encode grading event")
		return
	}

	if p.redis != nil && p.redisChan != "" {
		if err := p.redis.Publish(ctx, p.redisChan, payload).Err(); err != nil {
			p.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish grading event to redis")
		}
	}

	if p.nats != nil && p.natsSubject != "" {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			p.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish grading event to nats")
		}
	}
}
