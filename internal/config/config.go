package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAgents is the fallback list of selectable AI agents when the
// operator has not configured one.
var DefaultAgents = []string{"Gemini", "Claude", "OpenAI", "Deepseek", "Ollama"}

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	WebhookURL        string
	WebhookToken      string
	WebhookTimeout    time.Duration
	ReviewModeEnabled bool
	AvailableAgents   []string
	SystemGraderID    uint
	JobCacheTTL       time.Duration
	EventChannel      string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// AgentAllowed reports whether the given AI agent name is selectable.
func (c Config) AgentAllowed(agent string) bool {
	for _, candidate := range c.AvailableAgents {
		if strings.EqualFold(candidate, agent) {
			return true
		}
	}
	return false
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AUTOGRADE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Autograde Helper API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("webhook.timeout_ms", 30000)
	v.SetDefault("review_mode.enabled", false)
	v.SetDefault("grading.system_grader_id", 2)
	v.SetDefault("jobs.cache_ttl", "1m")
	v.SetDefault("events.channel", "autograde")

	ttlString := v.GetString("jobs.cache_ttl")
	if ttlString == "" {
		ttlString = "1m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid job cache ttl: %w", err)
	}

	timeoutMs := v.GetInt("webhook.timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 30000
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		WebhookURL:        v.GetString("webhook.url"),
		WebhookToken:      v.GetString("webhook.token"),
		WebhookTimeout:    time.Duration(timeoutMs) * time.Millisecond,
		ReviewModeEnabled: v.GetBool("review_mode.enabled"),
		AvailableAgents:   ParseAgents(v.GetString("agents.available")),
		SystemGraderID:    v.GetUint("grading.system_grader_id"),
		JobCacheTTL:       ttl,
		EventChannel:      v.GetString("events.channel"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SystemGraderID == 0 {
		cfg.SystemGraderID = 2
	}

	return cfg, nil
}

// ParseAgents splits a newline-delimited agent list, falling back to
// DefaultAgents when the input yields no usable entries.
func ParseAgents(raw string) []string {
	lines := strings.Split(raw, "\n")
	agents := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			agents = append(agents, trimmed)
		}
	}

	if len(agents) == 0 {
		return append([]string(nil), DefaultAgents...)
	}

	return agents
}
