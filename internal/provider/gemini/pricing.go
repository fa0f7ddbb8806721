package gemini

import (
	"context"
	"fmt"

	"github.com/davidbz/emberpost/internal/domain"
)

const (
	// Approximate blended USD per 1K total tokens.
	geminiFlashCostPer1K = 0.0003
	geminiProCostPer1K   = 0.005
)

// RegisterPricing registers Gemini model pricing with the registry.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	models := map[string]domain.PricingConfig{
		"gemini-1.5-flash": {CostPer1K: geminiFlashCostPer1K},
		"gemini-1.5-pro":   {CostPer1K: geminiProCostPer1K},
	}

	for model, config := range models {
		if err := registry.RegisterPricing(ctx, model, config); err != nil {
			return fmt.Errorf("failed to register pricing for model %s: %w", model, err)
		}
	}

	return nil
}
