package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/emberpost/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 30, cfg.Server.ReadTimeout)
	require.Equal(t, 180, cfg.Server.WriteTimeout)

	require.Equal(t, "openai", cfg.Pipeline.Provider)
	require.Equal(t, "gpt-4o-mini", cfg.Pipeline.OpenAIModelSmall)
	require.Equal(t, "gpt-4o-mini", cfg.Pipeline.OpenAIModelWriter)
	require.Equal(t, "gemini-1.5-flash", cfg.Pipeline.GeminiModelSmall)
	require.Equal(t, "gemini-1.5-pro", cfg.Pipeline.GeminiModelWriter)
	require.Contains(t, cfg.Pipeline.SearchURLTemplate, "%s")

	require.InDelta(t, 20.0, cfg.Budget.DailyCapUSD, 0.0001)
	require.InDelta(t, 0.15, cfg.Budget.DefaultCostPer1K, 0.0001)
	require.Equal(t, "budget", cfg.Budget.KeyPrefix)

	require.Empty(t, cfg.Redis.Addr)
	require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_MODEL_WRITER", "gemini-2.0-pro")
	t.Setenv("BUDGET_DAILY_CAP_USD", "5.5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg := config.Load()

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "gemini", cfg.Pipeline.Provider)
	require.Equal(t, "gemini-2.0-pro", cfg.Pipeline.GeminiModelWriter)
	require.InDelta(t, 5.5, cfg.Budget.DailyCapUSD, 0.0001)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestParseDependenciesConfig(t *testing.T) {
	cfg := config.Load()
	deps := config.ParseDependenciesConfig(cfg)

	require.Same(t, &cfg.Server, deps.Server)
	require.Same(t, &cfg.Pipeline, deps.Pipeline)
	require.Same(t, &cfg.Budget, deps.Budget)
	require.Same(t, &cfg.Redis, deps.Redis)
}
