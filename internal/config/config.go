package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/emberpost/internal/provider/gemini"
	"github.com/davidbz/emberpost/internal/provider/openai"
)

// Config represents the pipeline service configuration.
type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	OpenAI   openai.Config
	Gemini   gemini.Config
	Pipeline PipelineConfig
	Budget   BudgetConfig
	Redis    RedisConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"180"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// PipelineConfig contains generation pipeline settings: which backend
// serves requests and which model each purpose resolves to.
type PipelineConfig struct {
	Provider          string `env:"AI_PROVIDER"         envDefault:"openai"` // openai | gemini
	OpenAIModelSmall  string `env:"OPENAI_MODEL_SMALL"  envDefault:"gpt-4o-mini"`
	OpenAIModelWriter string `env:"OPENAI_MODEL_WRITER" envDefault:"gpt-4o-mini"`
	GeminiModelSmall  string `env:"GEMINI_MODEL_SMALL"  envDefault:"gemini-1.5-flash"`
	GeminiModelWriter string `env:"GEMINI_MODEL_WRITER" envDefault:"gemini-1.5-pro"`
	SearchURLTemplate string `env:"SEARCH_URL_TEMPLATE" envDefault:"https://www.coupang.com/np/search?q=%s"`
}

// BudgetConfig contains daily spend-cap settings.
type BudgetConfig struct {
	DailyCapUSD      float64 `env:"BUDGET_DAILY_CAP_USD"       envDefault:"20.0"`
	DefaultCostPer1K float64 `env:"BUDGET_DEFAULT_COST_PER_1K" envDefault:"0.15"`
	KeyPrefix        string  `env:"BUDGET_KEY_PREFIX"          envDefault:"budget"`
}

// RedisConfig contains Redis connection settings for the usage ledger.
// An empty address selects the in-memory ledger.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// DepConfig is used for dependency injection with dig. Fields are named
// because the two provider configs share an unqualified type name.
type DepConfig struct {
	dig.Out

	Server   *ServerConfig
	CORS     *CORSConfig
	OpenAI   *openai.Config
	Gemini   *gemini.Config
	Pipeline *PipelineConfig
	Budget   *BudgetConfig
	Redis    *RedisConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Server:   &cfg.Server,
		CORS:     &cfg.CORS,
		OpenAI:   &cfg.OpenAI,
		Gemini:   &cfg.Gemini,
		Pipeline: &cfg.Pipeline,
		Budget:   &cfg.Budget,
		Redis:    &cfg.Redis,
	}
}
