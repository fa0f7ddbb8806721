package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/provider/registry"
)

// mockProvider is a mock implementation of domain.Provider for testing.
type mockProvider struct {
	name string
}

func (m *mockProvider) Complete(_ context.Context, _ *domain.CompletionRequest) (*domain.CompletionResult, error) {
	return &domain.CompletionResult{}, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsModelSupported(_ context.Context, model string) bool {
	return model != ""
}

func TestRegistry_Register(t *testing.T) {
	t.Run("should register provider successfully", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		provider := &mockProvider{name: "test-provider"}

		err := reg.Register(ctx, provider)
		require.NoError(t, err)

		registered, err := reg.Get(ctx, "test-provider")
		require.NoError(t, err)
		require.NotNil(t, registered)
		require.Equal(t, "test-provider", registered.Name())
	})

	t.Run("should return error when provider is nil", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		err := reg.Register(ctx, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider cannot be nil")
	})

	t.Run("should return error when provider name is empty", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		err := reg.Register(ctx, &mockProvider{name: ""})
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider name cannot be empty")
	})

	t.Run("should return error when provider already registered", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		require.NoError(t, reg.Register(ctx, &mockProvider{name: "dup"}))

		err := reg.Register(ctx, &mockProvider{name: "dup"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "already registered")
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Run("should return error for unknown provider", func(t *testing.T) {
		reg := registry.NewRegistry()

		_, err := reg.Get(context.Background(), "missing")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})

	t.Run("should return error for empty name", func(t *testing.T) {
		reg := registry.NewRegistry()

		_, err := reg.Get(context.Background(), "")
		require.Error(t, err)
	})
}

func TestRegistry_List(t *testing.T) {
	reg := registry.NewRegistry()
	ctx := context.Background()

	names, err := reg.List(ctx)
	require.NoError(t, err)
	require.Empty(t, names)

	require.NoError(t, reg.Register(ctx, &mockProvider{name: "openai"}))
	require.NoError(t, reg.Register(ctx, &mockProvider{name: "gemini"}))

	names, err = reg.List(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"openai", "gemini"}, names)
}
