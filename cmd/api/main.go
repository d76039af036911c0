package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/smartlearn/autograde-api/internal/config"
	"github.com/smartlearn/autograde-api/internal/database"
	"github.com/smartlearn/autograde-api/internal/handler"
	"github.com/smartlearn/autograde-api/internal/middleware"
	"github.com/smartlearn/autograde-api/internal/models"
	"github.com/smartlearn/autograde-api/internal/repository"
	"github.com/smartlearn/autograde-api/internal/router"
	"github.com/smartlearn/autograde-api/internal/service"
	"github.com/smartlearn/autograde-api/pkg/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Assignment{}, &models.Submission{},
		&models.RubricDefinition{}, &models.RubricCriterion{}, &models.RubricLevel{},
		&models.GradingInstance{}, &models.RubricFilling{}, &models.GradeItem{},
		&models.AssignmentOptions{}, &models.GradingJob{}, &models.Review{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are optional: without them the API still works, it
	// just loses the status cache and event fan-out.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	optionsRepo := repository.NewOptionsRepository(db)
	jobRepo := repository.NewJobRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	rubricRepo := repository.NewRubricRepository(db)
	gradeRepo := repository.NewGradeRepository(db)

	webhookClient := webhook.New(webhook.Config{
		URL:     cfg.WebhookURL,
		Token:   cfg.WebhookToken,
		Timeout: cfg.WebhookTimeout,
	}, logger)

	events := service.NewEventPublisher(redisClient, natsConn, cfg.EventChannel, logger)
	jobTracker := service.NewJobTracker(jobRepo, redisClient, cfg.JobCacheTTL, events, logger)
	grader := service.NewRubricGrader(assignmentRepo, rubricRepo, gradeRepo, cfg.SystemGraderID, logger)
	reviewService := service.NewReviewService(reviewRepo, submissionRepo, grader, jobTracker, events, logger)
	gradingService := service.NewGradingService(assignmentRepo, optionsRepo, webhookClient, grader, reviewService, jobTracker, cfg.ReviewModeEnabled, logger)
	optionsService := service.NewOptionsService(optionsRepo, assignmentRepo, cfg, logger)
	buttonService := service.NewButtonStateService(assignmentRepo, submissionRepo, optionsRepo, jobRepo, gradeRepo, logger)

	gradingHandler := handler.NewGradingHandler(gradingService, logger)
	feedbackHandler := handler.NewFeedbackHandler(gradingService, jobTracker, buttonService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)
	optionsHandler := handler.NewOptionsHandler(optionsService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		GradingHandler:  gradingHandler,
		FeedbackHandler: feedbackHandler,
		ReviewHandler:   reviewHandler,
		OptionsHandler:  optionsHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
