// Package gemini provides the secondary generative backend over the
// Generative Language REST API. Messages are flattened into a single
// prompt (system messages first), and generated text is extracted
// strictly from candidate content parts: the response's convenience
// text accessor is never used because it fails when output was
// safety-filtered.
package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
)

const (
	providerName = "gemini"

	// maxAttempts bounds the capability-negotiation loop per request.
	maxAttempts = 3
)

// Provider implements the domain.Provider interface for Gemini.
type Provider struct {
	client     *Client
	safetyMode string
	name       string
}

// NewProvider creates a new Gemini provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, domain.NewError(domain.KindNotConfigured, "GEMINI_API_KEY not configured")
	}

	return &Provider{
		client:     NewClient(config),
		safetyMode: config.SafetyMode,
		name:       providerName,
	}, nil
}

// Complete sends a completion request, retrying without parameters the
// backend rejects, up to maxAttempts total attempts.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	logger := observability.FromContext(ctx)

	caps := initialCapabilities(req)
	genReq := generateRequest{
		Contents:       []content{{Parts: []part{{Text: flattenMessages(req.Messages)}}}},
		SafetySettings: safetySettingsFor(p.safetyMode),
	}

	var (
		resp    *generateResponse
		lastErr error
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		genReq.GenerationConfig = buildGenerationConfig(req, caps)

		var err error
		resp, err = p.client.GenerateContent(ctx, req.Model, genReq)
		if err == nil {
			break
		}
		lastErr = err
		resp = nil

		next, changed := disableUnsupported(err.Error(), caps)
		if !changed {
			break
		}
		logger.Warn("backend rejected a generation parameter, retrying without it",
			observability.Int("attempt", attempt),
			observability.Error(err))
		caps = next
	}

	if resp == nil {
		return nil, domain.WrapError(domain.KindNetwork, "Gemini API call failed", lastErr)
	}

	text := extractText(resp)
	if text == "" {
		return nil, domain.NewError(domain.KindPolicyBlocked, blockReason(resp))
	}

	return &domain.CompletionResult{
		Text:        text,
		TotalTokens: extractTokens(resp),
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
	return strings.HasPrefix(model, "gemini")
}

// initialCapabilities enables only the parameters this backend will be
// sent. The output-length cap is dropped unconditionally for this
// backend regardless of the request: long-form generations were being
// truncated mid-document by caller-supplied caps.
func initialCapabilities(req *domain.CompletionRequest) domain.Capabilities {
	caps := domain.FullCapabilities()
	caps.Temperature = caps.Temperature && req.Temperature != nil
	caps.MaxTokens = false
	caps.StructuredOutput = caps.StructuredOutput && req.ForceJSON
	return caps
}

// flattenMessages joins system messages, then non-system messages, into
// one prompt separated by blank lines.
func flattenMessages(messages []domain.Message) string {
	var system, rest []string
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
		} else {
			rest = append(rest, m.Content)
		}
	}

	prompt := strings.Join(rest, "\n\n")
	if len(system) > 0 {
		prompt = strings.Join(system, "\n\n") + "\n\n" + prompt
	}
	return prompt
}

// buildGenerationConfig applies only the enabled capability flags.
// Returns nil when nothing is set, omitting the field entirely.
func buildGenerationConfig(req *domain.CompletionRequest, caps domain.Capabilities) *generationConfig {
	gc := &generationConfig{}
	set := false

	if caps.Temperature && req.Temperature != nil {
		gc.Temperature = req.Temperature
		set = true
	}
	if caps.MaxTokens && req.MaxTokens != nil {
		gc.MaxOutputTokens = req.MaxTokens
		set = true
	}
	if caps.StructuredOutput && req.ForceJSON {
		gc.ResponseMimeType = "application/json"
		set = true
	}

	if !set {
		return nil
	}
	return gc
}

// disableUnsupported clears the generation parameter named in a backend
// error message. Substring matching against third-party error text;
// isolated here so the heuristic can be revised without touching the
// retry loop.
func disableUnsupported(msg string, caps domain.Capabilities) (domain.Capabilities, bool) {
	if caps.Temperature && strings.Contains(msg, "temperature") {
		caps.Temperature = false
		return caps, true
	}
	if caps.MaxTokens && (strings.Contains(msg, "max_output_tokens") || strings.Contains(msg, "maxOutputTokens")) {
		caps.MaxTokens = false
		return caps, true
	}
	return caps, false
}

// extractText reads generated text strictly from candidate content
// parts, taking the first candidate with any non-empty text.
func extractText(resp *generateResponse) string {
	for _, cand := range resp.Candidates {
		var collected []string
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				collected = append(collected, p.Text)
			}
		}
		if text := strings.TrimSpace(strings.Join(collected, "")); text != "" {
			return text
		}
	}
	return ""
}

// blockReason builds the PolicyBlocked diagnostic from prompt feedback:
// the block reason plus any flagged safety categories, defaulting to
// "no candidates returned".
func blockReason(resp *generateResponse) string {
	pf := resp.PromptFeedback
	if pf == nil || pf.BlockReason == "" {
		return "no candidates returned"
	}

	reason := "blocked: " + pf.BlockReason

	var details []string
	for _, rating := range pf.SafetyRatings {
		if rating.Blocked {
			details = append(details, rating.Category+": "+rating.Probability)
		}
	}
	if len(details) > 0 {
		reason += " (" + strings.Join(details, ", ") + ")"
	}
	return reason
}

// extractTokens reads the usage total, best-effort.
func extractTokens(resp *generateResponse) *int {
	if resp.UsageMetadata == nil || resp.UsageMetadata.TotalTokenCount == nil {
		return nil
	}
	return domain.Int(*resp.UsageMetadata.TotalTokenCount)
}
