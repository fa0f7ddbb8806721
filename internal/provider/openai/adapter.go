// Package openai provides the primary generative backend using the
// official OpenAI SDK. It implements the domain.Provider interface and
// handles capability negotiation: optional request parameters a model
// rejects are disabled one at a time inside a bounded retry loop.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
)

const (
	providerName = "openai"

	// maxAttempts bounds the capability-negotiation loop per request.
	maxAttempts = 3
)

// Provider implements the domain.Provider interface for OpenAI.
type Provider struct {
	client openai.Client
	name   string
}

// NewProvider creates a new OpenAI provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, domain.NewError(domain.KindNotConfigured, "OPENAI_API_KEY not configured")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return &Provider{
		client: openai.NewClient(opts...),
		name:   providerName,
	}, nil
}

// Complete sends a completion request, negotiating away parameters the
// model rejects, up to maxAttempts total attempts.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	logger := observability.FromContext(ctx)

	caps := initialCapabilities(req)
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := p.client.Chat.Completions.New(ctx, p.toSDKParams(req, caps))
		if err == nil {
			return p.toResult(req, resp)
		}
		lastErr = err

		next, changed := disableUnsupported(err.Error(), caps)
		if !changed {
			break
		}
		logger.Warn("backend rejected a request parameter, retrying without it",
			observability.Int("attempt", attempt),
			observability.Error(err))
		caps = next
	}

	return nil, domain.WrapError(domain.KindNetwork, "OpenAI API call failed", lastErr)
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// IsModelSupported checks if the provider supports the given model.
// Any chat model may be routed here, so this only rejects empty names.
func (p *Provider) IsModelSupported(_ context.Context, model string) bool {
	return model != ""
}

// initialCapabilities enables a flag only when the request actually
// carries the parameter; negotiation can then only disable flags that
// are in play.
func initialCapabilities(req *domain.CompletionRequest) domain.Capabilities {
	caps := domain.FullCapabilities()
	caps.Temperature = caps.Temperature && req.Temperature != nil
	caps.MaxTokens = caps.MaxTokens && req.MaxTokens != nil
	caps.StructuredOutput = caps.StructuredOutput && req.ForceJSON
	return caps
}

// toSDKParams converts the domain request to SDK parameters, applying
// only the currently enabled capability flags.
func (p *Provider) toSDKParams(req *domain.CompletionRequest, caps domain.Capabilities) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case "assistant":
			messages[i] = openai.AssistantMessage(msg.Content)
		case "system":
			messages[i] = openai.SystemMessage(msg.Content)
		default:
			messages[i] = openai.UserMessage(msg.Content)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}

	if caps.Temperature && req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	if caps.MaxTokens && req.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*req.MaxTokens))
	}

	if caps.StructuredOutput && req.ForceJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	return params
}

// toResult converts the SDK response to a domain result.
func (p *Provider) toResult(req *domain.CompletionRequest, resp *openai.ChatCompletion) (*domain.CompletionResult, error) {
	text := ""
	if len(resp.Choices) > 0 {
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if text == "" {
		return nil, domain.NewError(domain.KindEmptyResponse, "model returned no content")
	}

	var total *int
	if resp.Usage.TotalTokens > 0 {
		total = domain.Int(int(resp.Usage.TotalTokens))
	}

	return &domain.CompletionResult{
		Text:        text,
		TotalTokens: total,
		Model:       req.Model,
		Provider:    p.name,
	}, nil
}
