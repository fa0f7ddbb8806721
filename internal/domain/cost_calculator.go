package domain

import (
	"context"
	"errors"
)

const tokensToPerK = 1000.0

// StandardCostCalculator implements token-based cost approximation.
// Models without registered pricing fall back to a default rate so the
// ledger still accumulates a rough figure for unknown models.
type StandardCostCalculator struct {
	pricingRegistry  PricingRegistry
	defaultCostPer1K float64
}

// NewStandardCostCalculator creates a new cost calculator.
func NewStandardCostCalculator(registry PricingRegistry, defaultCostPer1K float64) *StandardCostCalculator {
	return &StandardCostCalculator{
		pricingRegistry:  registry,
		defaultCostPer1K: defaultCostPer1K,
	}
}

// Calculate computes the approximate cost for a model and token count.
func (c *StandardCostCalculator) Calculate(
	ctx context.Context,
	model string,
	tokens int,
) (float64, error) {
	if model == "" {
		return 0, errors.New("model cannot be empty")
	}

	rate := c.defaultCostPer1K
	pricing, err := c.pricingRegistry.GetPricing(ctx, model)
	if err == nil {
		rate = pricing.CostPer1K
	}

	return float64(tokens) / tokensToPerK * rate, nil
}
