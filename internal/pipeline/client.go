// Package pipeline orchestrates the generation workflows: provider
// resolution, item scouting with structured-output recovery, and
// document writing with compliance enforcement.
package pipeline

import (
	"context"
	"errors"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
	"github.com/davidbz/emberpost/internal/routing"
)

// Client resolves a provider and model for each request and forwards
// the call. It satisfies domain.Completer for the recovery and
// compliance layers.
type Client struct {
	resolver *routing.Resolver
}

// NewClient creates a new pipeline client.
func NewClient(resolver *routing.Resolver) *Client {
	return &Client{resolver: resolver}
}

// Complete resolves the backend for the request's purpose and executes
// the completion. The request is not mutated.
func (c *Client) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = domain.PurposeSmall
	}

	provider, model, err := c.resolver.Resolve(ctx, purpose)
	if err != nil {
		return nil, err
	}

	resolved := *req
	if resolved.Model == "" {
		resolved.Model = model
	}

	ctx = observability.WithProvider(ctx, provider.Name())
	ctx = observability.WithModel(ctx, resolved.Model)

	return provider.Complete(ctx, &resolved)
}
