package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
	"github.com/davidbz/emberpost/internal/recovery"
)

const (
	scoutTemperature = 0.3
	scoutMaxTokens   = 1200
)

// Scout produces product candidates for a keyword through the
// structured-output recovery chain.
type Scout struct {
	client            domain.Completer
	chain             *recovery.Chain
	meter             domain.UsageMeter
	searchURLTemplate string
}

// NewScout creates a scout service. searchURLTemplate is a %s-style
// template used to synthesize a product URL when the model omitted one.
func NewScout(client domain.Completer, chain *recovery.Chain, meter domain.UsageMeter, searchURLTemplate string) *Scout {
	return &Scout{
		client:            client,
		chain:             chain,
		meter:             meter,
		searchURLTemplate: searchURLTemplate,
	}
}

// Recommend asks the model for product candidates and recovers them
// from whatever shape the model produced. Exhausting every recovery
// strategy surfaces as a parse error.
func (s *Scout) Recommend(ctx context.Context, keyword string, dedupeKeys []string) ([]domain.ProductCandidate, error) {
	ctx = observability.WithKeyword(ctx, keyword)
	logger := observability.FromContext(ctx)

	user := fmt.Sprintf("Keyword: %q\nDedupe keys of products already posted: %s\nPrice range: open",
		keyword, strings.Join(dedupeKeys, ", "))

	res, err := s.client.Complete(ctx, &domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: "system", Content: ScoutSystem},
			{Role: "user", Content: user},
		},
		Temperature: domain.Float(scoutTemperature),
		MaxTokens:   domain.Int(scoutMaxTokens),
		ForceJSON:   true,
		Purpose:     domain.PurposeSmall,
	})
	if err != nil {
		return nil, err
	}

	s.recordUsage(ctx, res)

	items := s.chain.Recover(ctx, res.Text)
	if len(items) == 0 {
		logger.Error("recovery exhausted for scout response",
			observability.String("sample", sample(res.Text, 300)))
		return nil, domain.NewError(domain.KindParse,
			"model did not return a valid JSON array/object with items as instructed")
	}

	candidates := make([]domain.ProductCandidate, 0, len(items))
	for _, item := range items {
		candidate := toCandidate(item)
		candidate.DedupeKey = slugify(fmt.Sprintf("%s-%s-%s", candidate.Brand, candidate.Model, keyword))
		if candidate.ProductURL == "" {
			candidate.ProductURL = s.searchURL(candidate, keyword)
		}
		candidates = append(candidates, candidate)
	}

	logger.Info("scouted product candidates", observability.Int("count", len(candidates)))
	return candidates, nil
}

// recordUsage reports the call's token usage to the meter. Metering
// failures are logged, never escalated.
func (s *Scout) recordUsage(ctx context.Context, res *domain.CompletionResult) {
	if s.meter == nil {
		return
	}
	tokens := 0
	if res.TotalTokens != nil {
		tokens = *res.TotalTokens
	}
	if err := s.meter.Record(ctx, res.Model, tokens, nil); err != nil {
		observability.FromContext(ctx).Warn("failed to record usage", observability.Error(err))
	}
}

// searchURL synthesizes a search link for a candidate with no URL.
func (s *Scout) searchURL(candidate domain.ProductCandidate, keyword string) string {
	if s.searchURLTemplate == "" {
		return ""
	}
	query := strings.TrimSpace(candidate.Brand + " " + candidate.Model)
	if query == "" {
		query = defaultString(candidate.TitleGuess, keyword)
	}
	return fmt.Sprintf(s.searchURLTemplate, url.QueryEscape(query))
}

// toCandidate maps a recovered item object onto the candidate struct,
// ignoring unknown keys and non-string values.
func toCandidate(item recovery.Item) domain.ProductCandidate {
	var candidate domain.ProductCandidate
	raw, err := json.Marshal(item)
	if err != nil {
		return candidate
	}
	_ = json.Unmarshal(raw, &candidate)
	return candidate
}

func sample(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
