package compliance

import (
	"context"
	"strings"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
)

const (
	rewriteTemperature = 0.7
	rewriteMaxTokens   = 2000
)

// Enforcer guarantees structural and alignment compliance of a
// generated document. The structural pass is deterministic; the
// alignment pass may issue exactly one corrective rewrite through the
// completer. A failed rewrite is logged and swallowed: shipping a
// structurally valid but possibly misaligned draft beats failing the
// whole generation.
type Enforcer struct {
	completer    domain.Completer
	systemPrompt string
}

// NewEnforcer creates an enforcer. systemPrompt is the writer persona
// used for the corrective rewrite call.
func NewEnforcer(completer domain.Completer, systemPrompt string) *Enforcer {
	return &Enforcer{
		completer:    completer,
		systemPrompt: systemPrompt,
	}
}

// Enforce returns the final document text and the token count consumed
// by the rewrite call, if one was made.
func (e *Enforcer) Enforce(ctx context.Context, text, affiliateURL string, cc *Context) (string, int) {
	content := ApplyStructure(text, affiliateURL, cc)
	rewriteTokens := 0

	if NeedsAlignment(content, cc) {
		logger := observability.FromContext(ctx)
		logger.Info("alignment pass triggered",
			observability.String("enforced_name", cc.EnforcedName))

		rewritten, tokens, err := e.rewrite(ctx, content, cc)
		switch {
		case err != nil:
			logger.Warn("alignment rewrite failed, keeping structural draft",
				observability.Error(err))
		case rewritten == "":
			logger.Warn("alignment rewrite returned empty text, keeping structural draft")
		default:
			// Rewriting can disturb CTA placement, so re-run the
			// structural pass on the new text.
			content = ApplyStructure(rewritten, affiliateURL, cc)
			rewriteTokens = tokens
		}
	}

	if cc.AffiliateHTML != "" && !strings.Contains(content, cc.AffiliateHTML) {
		content = strings.TrimRight(content, " \n") + "\n\n" + cc.AffiliateHTML + "\n"
	}

	return content, rewriteTokens
}

// NeedsAlignment reports whether the document violates the naming
// constraints: the enforced canonical name is absent, or a disallowed
// token appears without being excused by substring overlap with an
// allowed or enforced name.
func NeedsAlignment(text string, cc *Context) bool {
	if text == "" {
		return true
	}
	if cc.EnforcedName != "" && !strings.Contains(text, cc.EnforcedName) {
		return true
	}

	allowed := make([]string, 0, len(cc.AllowedNames)+1)
	allowed = append(allowed, cc.AllowedNames...)
	if cc.EnforcedName != "" {
		allowed = append(allowed, cc.EnforcedName)
	}

	for _, token := range cc.DisallowedTokens {
		if token == "" || !strings.Contains(text, token) {
			continue
		}
		if !excused(token, allowed) {
			return true
		}
	}
	return false
}

// excused reports whether a disallowed token overlaps an allowed name:
// the token is a substring of the name, or the name a substring of the
// token. Overlap means the "banned" hit is really a variant spelling of
// a permitted product.
func excused(token string, allowed []string) bool {
	for _, name := range allowed {
		if name == "" {
			continue
		}
		if strings.Contains(token, name) || strings.Contains(name, token) {
			return true
		}
	}
	return false
}

// rewrite issues the single corrective rewrite request.
func (e *Enforcer) rewrite(ctx context.Context, content string, cc *Context) (string, int, error) {
	var b strings.Builder
	b.WriteString("Rewrite the following post naturally so it satisfies these constraints.\n")
	if cc.EnforcedName != "" {
		b.WriteString("Always use the product name '" + cc.EnforcedName + "'; do not mention models outside the allowed list.\n")
	}
	if len(cc.AllowedNames) > 0 {
		b.WriteString("Allowed model names: " + strings.Join(cc.AllowedNames, ", ") + ". Remove any other brand or model.\n")
	}
	if len(cc.DisallowedTokens) > 0 {
		b.WriteString("Banned keywords (brands/models): " + strings.Join(cc.DisallowedTokens, ", ") + ". Remove them from the body.\n")
	}
	b.WriteString("Keep the link placement (intro / below the table / conclusion). Vary sentence length and swap in synonyms so it reads naturally.\n\n")
	b.WriteString(content)

	req := &domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: "system", Content: e.systemPrompt},
			{Role: "user", Content: b.String()},
		},
		Temperature: domain.Float(rewriteTemperature),
		MaxTokens:   domain.Int(rewriteMaxTokens),
		Purpose:     domain.PurposeWriter,
	}

	res, err := e.completer.Complete(ctx, req)
	if err != nil {
		return "", 0, err
	}

	tokens := 0
	if res.TotalTokens != nil {
		tokens = *res.TotalTokens
	}
	return res.Text, tokens, nil
}
