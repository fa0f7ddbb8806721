package domain

import "context"

// Provider represents any generative backend.
type Provider interface {
	// Complete sends a completion request and returns the full result.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)

	// Name returns the provider identifier.
	Name() string

	// IsModelSupported checks if the provider supports the given model.
	IsModelSupported(ctx context.Context, model string) bool
}

// Completer is the minimal completion surface consumed by the recovery
// and compliance layers. Satisfied by the pipeline client.
type Completer interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)
}

// ProviderRegistry manages available providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by name.
	Get(ctx context.Context, providerName string) (Provider, error)

	// List returns all available providers.
	List(ctx context.Context) ([]string, error)
}

// UsageMeter accumulates token/cost usage per day and exposes an
// advisory spend-cap check.
type UsageMeter interface {
	// Record adds tokens to today's ledger. When usd is nil an
	// approximate cost is derived from the per-model cost table.
	Record(ctx context.Context, model string, tokens int, usd *float64) error

	// CanSpend reports whether today's cumulative spend plus expectedUSD
	// stays within the configured daily cap. Advisory only.
	CanSpend(ctx context.Context, expectedUSD float64) (bool, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
