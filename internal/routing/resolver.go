// Package routing resolves which backend and model serve a request.
// Selection is configuration-driven and resolved once per request; the
// pipeline itself stays independent of provider specifics.
package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/emberpost/internal/config"
	"github.com/davidbz/emberpost/internal/domain"
)

// Resolver maps a request purpose to a registered provider and a model
// name based on configuration.
type Resolver struct {
	cfg      *config.PipelineConfig
	registry domain.ProviderRegistry
}

// NewResolver creates a new resolver.
func NewResolver(cfg *config.PipelineConfig, registry domain.ProviderRegistry) *Resolver {
	return &Resolver{
		cfg:      cfg,
		registry: registry,
	}
}

// Resolve returns the configured provider and the model for a purpose.
// A missing provider surfaces as a configuration error, never retried.
func (r *Resolver) Resolve(ctx context.Context, purpose domain.Purpose) (domain.Provider, string, error) {
	name := r.cfg.Provider
	if name == "" {
		return nil, "", errors.New("no provider configured")
	}

	provider, err := r.registry.Get(ctx, name)
	if err != nil {
		return nil, "", domain.WrapError(domain.KindNotConfigured,
			fmt.Sprintf("provider %s is not configured", name), err)
	}

	return provider, r.modelFor(name, purpose), nil
}

func (r *Resolver) modelFor(providerName string, purpose domain.Purpose) string {
	writer := purpose == domain.PurposeWriter

	switch providerName {
	case "gemini":
		if writer {
			return r.cfg.GeminiModelWriter
		}
		return r.cfg.GeminiModelSmall
	default:
		if writer {
			return r.cfg.OpenAIModelWriter
		}
		return r.cfg.OpenAIModelSmall
	}
}
