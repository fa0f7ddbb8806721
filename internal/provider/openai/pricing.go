package openai

import (
	"context"
	"fmt"

	"github.com/davidbz/emberpost/internal/domain"
)

const (
	// Approximate blended USD per 1K total tokens.
	gpt4oMiniCostPer1K = 0.15
	gpt4oCostPer1K     = 0.0125
)

// RegisterPricing registers OpenAI model pricing with the registry.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	models := map[string]domain.PricingConfig{
		"gpt-4o-mini": {CostPer1K: gpt4oMiniCostPer1K},
		"gpt-4o":      {CostPer1K: gpt4oCostPer1K},
	}

	for model, config := range models {
		if err := registry.RegisterPricing(ctx, model, config); err != nil {
			return fmt.Errorf("failed to register pricing for model %s: %w", model, err)
		}
	}

	return nil
}
