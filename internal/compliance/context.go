// Package compliance post-processes generated documents to guarantee the
// mandatory disclosure/call-to-action structure and factual-alignment
// constraints, issuing at most one corrective rewrite.
package compliance

import "fmt"

const (
	// DefaultDisclosure is the mandatory affiliate disclosure sentence,
	// required verbatim as the second line of any published document.
	DefaultDisclosure = "*This post is part of an affiliate program; the author may earn a commission from qualifying purchases.*"

	// DefaultHeadingTag is the disclosure tag every title must start with.
	DefaultHeadingTag = "[AD]"

	// DefaultPlaceholderTitle is used when the draft has no heading line.
	DefaultPlaceholderTitle = "Untitled"

	// DefaultMinCTAs is the minimum number of distinct call-to-action
	// links a document must carry.
	DefaultMinCTAs = 2
)

// defaultCTATemplates are the three canonical call-to-action phrasings,
// each parameterized by the affiliate URL. Anchors vary so repeated
// links do not read as boilerplate.
var defaultCTATemplates = [3]string{
	"[See details](%s)",
	"[Check full specs and lowest price](%s)",
	"[Check today's price and stock](%s)",
}

// Context carries the per-document compliance constraints.
type Context struct {
	// EnforcedName is the canonical product name that must appear.
	EnforcedName string

	// AllowedNames are aliases that may appear alongside EnforcedName.
	AllowedNames []string

	// DisallowedTokens are competitor brands/models that must not appear
	// unless excused by substring overlap with an allowed name.
	DisallowedTokens []string

	// Disclosure is the mandatory second-line sentence.
	Disclosure string

	// HeadingTag is the prefix required on the title line.
	HeadingTag string

	// PlaceholderTitle is the synthesized title when none exists.
	PlaceholderTitle string

	// CTATemplates are the canonical CTA phrasings, %s = affiliate URL.
	CTATemplates [3]string

	// MinCTAs is the minimum required CTA count.
	MinCTAs int

	// AffiliateHTML is an optional pre-supplied markup block appended
	// once at the end of the document.
	AffiliateHTML string
}

// NewContext returns a Context with all structural defaults filled in.
func NewContext() *Context {
	return &Context{
		Disclosure:       DefaultDisclosure,
		HeadingTag:       DefaultHeadingTag,
		PlaceholderTitle: DefaultPlaceholderTitle,
		CTATemplates:     defaultCTATemplates,
		MinCTAs:          DefaultMinCTAs,
	}
}

// ctas renders the canonical CTA phrasings for the given affiliate URL.
func (c *Context) ctas(affiliateURL string) []string {
	out := make([]string, 0, len(c.CTATemplates))
	for _, tmpl := range c.CTATemplates {
		out = append(out, fmt.Sprintf(tmpl, affiliateURL))
	}
	return out
}
