package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/emberpost/internal/domain"
)

func TestStandardCostCalculator_Calculate(t *testing.T) {
	ctx := context.Background()
	registry := domain.NewInMemoryPricingRegistry()

	err := registry.RegisterPricing(ctx, "test-model", domain.PricingConfig{CostPer1K: 0.15})
	require.NoError(t, err)

	calculator := domain.NewStandardCostCalculator(registry, 0.5)

	tests := []struct {
		name         string
		model        string
		tokens       int
		expectedCost float64
		expectError  bool
	}{
		{
			name:         "registered model uses its rate",
			model:        "test-model",
			tokens:       1000,
			expectedCost: 0.15,
		},
		{
			name:         "unknown model falls back to the default rate",
			model:        "unknown-model",
			tokens:       1000,
			expectedCost: 0.5,
		},
		{
			name:        "empty model returns error",
			model:       "",
			tokens:      100,
			expectError: true,
		},
		{
			name:         "zero tokens cost nothing",
			model:        "test-model",
			tokens:       0,
			expectedCost: 0,
		},
		{
			name:         "partial thousands scale linearly",
			model:        "test-model",
			tokens:       250,
			expectedCost: 0.0375,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, calcErr := calculator.Calculate(ctx, tt.model, tt.tokens)

			if tt.expectError {
				require.Error(t, calcErr)
				return
			}

			require.NoError(t, calcErr)
			require.InDelta(t, tt.expectedCost, cost, 0.0001)
		})
	}
}

func TestInMemoryPricingRegistry(t *testing.T) {
	ctx := context.Background()
	registry := domain.NewInMemoryPricingRegistry()

	t.Run("register and retrieve pricing", func(t *testing.T) {
		err := registry.RegisterPricing(ctx, "gpt-4o-mini", domain.PricingConfig{CostPer1K: 0.15})
		require.NoError(t, err)

		pricing, err := registry.GetPricing(ctx, "gpt-4o-mini")
		require.NoError(t, err)
		require.InDelta(t, 0.15, pricing.CostPer1K, 0.0001)
	})

	t.Run("unknown model returns error", func(t *testing.T) {
		_, err := registry.GetPricing(ctx, "missing")
		require.Error(t, err)
	})

	t.Run("empty model name is rejected", func(t *testing.T) {
		err := registry.RegisterPricing(ctx, "", domain.PricingConfig{CostPer1K: 1})
		require.Error(t, err)
	})
}
