// Package echo provides a testing provider that echoes back input
// messages. It implements the domain.Provider interface without making
// external API calls, giving deterministic responses for tests and
// local development.
package echo

import (
	"context"
	"errors"
	"strings"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
)

const (
	providerName = "echo"
	modelName    = "echo4"
)

// Provider implements the domain.Provider interface for echo testing.
type Provider struct {
	name            string
	supportedModels map[string]bool
}

// NewProvider creates a new echo provider.
// No configuration is required as this provider operates entirely in-memory.
func NewProvider() *Provider {
	return &Provider{
		name: providerName,
		supportedModels: map[string]bool{
			modelName: true,
		},
	}
}

// Complete sends a completion request and returns the echoed response.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echoing request")

	text := buildEchoContent(req.Messages)
	tokens := countTokens(text) * 2 // prompt + completion, echoed 1:1

	return &domain.CompletionResult{
		Text:        text,
		TotalTokens: domain.Int(tokens),
		Model:       req.Model,
		Provider:    p.name,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// IsModelSupported checks if the provider supports the given model.
func (p *Provider) IsModelSupported(_ context.Context, model string) bool {
	return p.supportedModels[model]
}

// buildEchoContent concatenates non-system message contents.
func buildEchoContent(messages []domain.Message) string {
	var parts []string
	for _, msg := range messages {
		if msg.Role == "system" {
			continue
		}
		parts = append(parts, msg.Content)
	}
	return strings.Join(parts, "\n")
}

// countTokens approximates token count by word count.
func countTokens(text string) int {
	return len(strings.Fields(text))
}
