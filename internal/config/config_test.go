package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAgentsSplitsLines(t *testing.T) {
	agents := ParseAgents("Gemini\n  Claude \n\nOllama\n")
	require.Equal(t, []string{"Gemini", "Claude", "Ollama"}, agents)
}

func TestParseAgentsFallsBackToDefaults(t *testing.T) {
	require.Equal(t, DefaultAgents, ParseAgents(""))
	require.Equal(t, DefaultAgents, ParseAgents("  \n \n"))
}

func TestAgentAllowedIsCaseInsensitive(t *testing.T) {
	cfg := Config{AvailableAgents: []string{"Gemini", "Claude"}}
	require.True(t, cfg.AgentAllowed("claude"))
	require.True(t, cfg.AgentAllowed("GEMINI"))
	require.False(t, cfg.AgentAllowed("Skynet"))
}

func TestHTTPAddress(t *testing.T) {
	require.Equal(t, ":8080", Config{AppPort: "8080"}.HTTPAddress())
	require.Equal(t, ":9000", Config{AppPort: ":9000"}.HTTPAddress())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTOGRADE_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTOGRADE_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, uint(2), cfg.SystemGraderID)
	require.Equal(t, "autograde", cfg.EventChannel)
	require.False(t, cfg.ReviewModeEnabled)
	require.Equal(t, DefaultAgents, cfg.AvailableAgents)
}
