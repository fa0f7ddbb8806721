package pipeline

import (
	"context"
	"strings"

	"github.com/davidbz/emberpost/internal/compliance"
	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
)

const (
	writerTemperature = 0.8
	writerMaxTokens   = 2000

	// fallbackWriterTokens is the usage estimate applied when the
	// backend did not report a token total for a writer call.
	fallbackWriterTokens = 800
)

// GenerateOptions carries per-document constraints and extras.
type GenerateOptions struct {
	TemplateType       string
	EnforceProductName string
	AllowedNames       []string
	DisallowedBrands   []string
	AffiliateHTML      string
	SpecTableMD        string
	Sources            []string
}

// Writer generates a policy-compliant marketing document for a product
// candidate.
type Writer struct {
	client   domain.Completer
	enforcer *compliance.Enforcer
	meter    domain.UsageMeter
}

// NewWriter creates a writer service.
func NewWriter(client domain.Completer, enforcer *compliance.Enforcer, meter domain.UsageMeter) *Writer {
	return &Writer{
		client:   client,
		enforcer: enforcer,
		meter:    meter,
	}
}

// Generate produces the final document: one writer call, then the
// compliance pass which may spend one more call on a corrective
// rewrite.
func (w *Writer) Generate(
	ctx context.Context,
	keyword string,
	candidate domain.ProductCandidate,
	affiliateURL string,
	opts GenerateOptions,
) (*domain.Draft, error) {
	ctx = observability.WithKeyword(ctx, keyword)

	productName := strings.TrimSpace(candidate.Brand + " " + candidate.Model)
	if productName == "" {
		productName = candidate.TitleGuess
	}

	user := buildUserPrompt(opts.TemplateType, WriterInput{
		Keyword:      keyword,
		ProductName:  productName,
		PriceBand:    candidate.PriceBand,
		AffiliateURL: affiliateURL,
		SpecTableMD:  opts.SpecTableMD,
		Sources:      opts.Sources,
	})

	res, err := w.client.Complete(ctx, &domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: "system", Content: WriterSystem},
			{Role: "user", Content: user},
		},
		Temperature: domain.Float(writerTemperature),
		MaxTokens:   domain.Int(writerMaxTokens),
		Purpose:     domain.PurposeWriter,
	})
	if err != nil {
		return nil, err
	}

	tokens := fallbackWriterTokens
	if res.TotalTokens != nil && *res.TotalTokens > 0 {
		tokens = *res.TotalTokens
	}

	cc := compliance.NewContext()
	cc.EnforcedName = opts.EnforceProductName
	cc.AllowedNames = opts.AllowedNames
	cc.DisallowedTokens = opts.DisallowedBrands
	cc.AffiliateHTML = opts.AffiliateHTML

	content, rewriteTokens := w.enforcer.Enforce(ctx, res.Text, affiliateURL, cc)
	tokens += rewriteTokens

	if w.meter != nil {
		if recordErr := w.meter.Record(ctx, res.Model, tokens, nil); recordErr != nil {
			observability.FromContext(ctx).Warn("failed to record usage", observability.Error(recordErr))
		}
	}

	return &domain.Draft{
		Content:     content,
		Title:       extractTitle(content, cc, keyword),
		Tags:        buildTags(keyword),
		TotalTokens: domain.Int(tokens),
	}, nil
}

// extractTitle returns the first heading line with the '#' markers
// removed; the disclosure tag prefix is retained.
func extractTitle(content string, cc *compliance.Context, keyword string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "# ") {
			return strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
		}
	}
	return cc.HeadingTag + " " + keyword + " review"
}

func buildTags(keyword string) []string {
	return []string{strings.ReplaceAll(keyword, " ", ""), "affiliate"}
}
