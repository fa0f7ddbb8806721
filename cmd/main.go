package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/davidbz/emberpost/internal/budget"
	"github.com/davidbz/emberpost/internal/compliance"
	"github.com/davidbz/emberpost/internal/config"
	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/http"
	"github.com/davidbz/emberpost/internal/http/middleware"
	"github.com/davidbz/emberpost/internal/observability"
	"github.com/davidbz/emberpost/internal/pipeline"
	"github.com/davidbz/emberpost/internal/provider/echo"
	"github.com/davidbz/emberpost/internal/provider/gemini"
	"github.com/davidbz/emberpost/internal/provider/openai"
	"github.com/davidbz/emberpost/internal/provider/registry"
	"github.com/davidbz/emberpost/internal/recovery"
	"github.com/davidbz/emberpost/internal/routing"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

//nolint:gocyclo // Linear wiring, one Provide per component.
func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func() domain.EventPublisher {
		return observability.NewEventBus(slog.Default())
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Provider Registry
	if err := container.Provide(func() domain.ProviderRegistry {
		return registry.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Backends
	if err := container.Provide(func(cfg *openai.Config) (*openai.Provider, error) {
		return openai.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenAI provider: %v", err)
	}
	if err := container.Provide(func(cfg *gemini.Config) (*gemini.Provider, error) {
		return gemini.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Gemini provider: %v", err)
	}
	if err := container.Provide(echo.NewProvider); err != nil {
		log.Fatalf("Failed to provide echo provider: %v", err)
	}

	registerProviders(container)

	// Pricing and usage metering
	if err := container.Provide(func() domain.PricingRegistry {
		return domain.NewInMemoryPricingRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide pricing registry: %v", err)
	}
	if err := container.Invoke(func(pricing domain.PricingRegistry) error {
		ctx := context.Background()
		for _, register := range []func(context.Context, domain.PricingRegistry) error{
			openai.RegisterPricing,
			gemini.RegisterPricing,
			echo.RegisterPricing,
		} {
			if err := register(ctx, pricing); err != nil {
				return fmt.Errorf("failed to register pricing: %w", err)
			}
		}
		return nil
	}); err != nil {
		log.Fatalf("Failed to register pricing: %v", err)
	}

	if err := container.Provide(func(pricing domain.PricingRegistry, cfg *config.BudgetConfig) domain.CostCalculator {
		return domain.NewStandardCostCalculator(pricing, cfg.DefaultCostPer1K)
	}); err != nil {
		log.Fatalf("Failed to provide cost calculator: %v", err)
	}

	if err := container.Provide(func(redisCfg *config.RedisConfig, budgetCfg *config.BudgetConfig) budget.Ledger {
		if redisCfg.Addr == "" {
			return budget.NewMemoryLedger()
		}
		client := goredis.NewClient(&goredis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		return budget.NewRedisLedger(client, budgetCfg.KeyPrefix)
	}); err != nil {
		log.Fatalf("Failed to provide ledger: %v", err)
	}

	if err := container.Provide(func(ledger budget.Ledger, calc domain.CostCalculator, cfg *config.BudgetConfig) *budget.Meter {
		return budget.NewMeter(ledger, calc, cfg.DailyCapUSD)
	}); err != nil {
		log.Fatalf("Failed to provide usage meter: %v", err)
	}
	if err := container.Provide(func(meter *budget.Meter) domain.UsageMeter {
		return meter
	}); err != nil {
		log.Fatalf("Failed to provide usage meter interface: %v", err)
	}

	// Pipeline
	if err := container.Provide(routing.NewResolver); err != nil {
		log.Fatalf("Failed to provide resolver: %v", err)
	}
	if err := container.Provide(pipeline.NewClient); err != nil {
		log.Fatalf("Failed to provide pipeline client: %v", err)
	}
	if err := container.Provide(func(client *pipeline.Client) domain.Completer {
		return client
	}); err != nil {
		log.Fatalf("Failed to provide completer: %v", err)
	}
	if err := container.Provide(func(completer domain.Completer) *recovery.Chain {
		return recovery.NewChain(recovery.NewRepairer(completer, pipeline.ItemKeys))
	}); err != nil {
		log.Fatalf("Failed to provide recovery chain: %v", err)
	}
	if err := container.Provide(func(completer domain.Completer) *compliance.Enforcer {
		return compliance.NewEnforcer(completer, pipeline.WriterSystem)
	}); err != nil {
		log.Fatalf("Failed to provide compliance enforcer: %v", err)
	}
	if err := container.Provide(func(
		completer domain.Completer,
		chain *recovery.Chain,
		meter domain.UsageMeter,
		cfg *config.PipelineConfig,
	) *pipeline.Scout {
		return pipeline.NewScout(completer, chain, meter, cfg.SearchURLTemplate)
	}); err != nil {
		log.Fatalf("Failed to provide scout: %v", err)
	}
	if err := container.Provide(func(
		completer domain.Completer,
		enforcer *compliance.Enforcer,
		meter domain.UsageMeter,
	) *pipeline.Writer {
		return pipeline.NewWriter(completer, enforcer, meter)
	}); err != nil {
		log.Fatalf("Failed to provide writer: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.New); err != nil {
		log.Fatalf("Failed to provide middleware: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// registerProviders registers each configured backend, skipping those
// without credentials. Missing keys are expected for optional backends.
func registerProviders(container *dig.Container) {
	ctx := context.Background()

	if err := container.Invoke(func(reg domain.ProviderRegistry, provider *openai.Provider) error {
		return reg.Register(ctx, provider)
	}); err != nil && !domain.IsKind(err, domain.KindNotConfigured) {
		log.Fatalf("Failed to register OpenAI provider: %v", err)
	}

	if err := container.Invoke(func(reg domain.ProviderRegistry, provider *gemini.Provider) error {
		return reg.Register(ctx, provider)
	}); err != nil && !domain.IsKind(err, domain.KindNotConfigured) {
		log.Fatalf("Failed to register Gemini provider: %v", err)
	}

	if err := container.Invoke(func(reg domain.ProviderRegistry, provider *echo.Provider) error {
		return reg.Register(ctx, provider)
	}); err != nil {
		log.Fatalf("Failed to register echo provider: %v", err)
	}
}
