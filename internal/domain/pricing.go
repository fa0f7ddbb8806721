package domain

import "context"

// PricingConfig contains an approximate blended per-token rate for a model.
// The ledger only tracks total tokens, so a single blended rate is used
// rather than separate input/output rates.
type PricingConfig struct {
	CostPer1K float64 // USD per 1K total tokens
}

// CostCalculator approximates USD cost from a token total.
type CostCalculator interface {
	// Calculate returns the approximate cost for a model and token count.
	Calculate(ctx context.Context, model string, tokens int) (float64, error)
}

// PricingRegistry maintains pricing information for models.
type PricingRegistry interface {
	// GetPricing returns pricing config for a model.
	GetPricing(ctx context.Context, model string) (PricingConfig, error)

	// RegisterPricing adds pricing for a model.
	RegisterPricing(ctx context.Context, model string, config PricingConfig) error
}
