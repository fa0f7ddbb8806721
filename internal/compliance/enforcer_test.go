package compliance_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/emberpost/internal/compliance"
	"github.com/davidbz/emberpost/internal/domain"
)

type fakeCompleter struct {
	text   string
	tokens int
	err    error
	calls  int
	last   *domain.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CompletionResult{Text: f.text, TotalTokens: domain.Int(f.tokens)}, nil
}

func TestNeedsAlignment(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		enforced   string
		allowed    []string
		disallowed []string
		want       bool
	}{
		{
			name: "no constraints never triggers",
			text: "anything goes here",
			want: false,
		},
		{
			name:     "enforced name present",
			text:     "the Acme X1 is great",
			enforced: "Acme X1",
			want:     false,
		},
		{
			name:     "enforced name absent",
			text:     "this vacuum is great",
			enforced: "Acme X1",
			want:     true,
		},
		{
			name:       "disallowed token present",
			text:       "better than the Bravo Y2",
			disallowed: []string{"Bravo Y2"},
			want:       true,
		},
		{
			name:       "disallowed token absent",
			text:       "nothing to see",
			disallowed: []string{"Bravo Y2"},
			want:       false,
		},
		{
			name:       "disallowed excused by allowed substring",
			text:       "the Acme X1 Pro is a variant",
			enforced:   "Acme X1 Pro",
			disallowed: []string{"Acme X1"},
			want:       false,
		},
		{
			name:       "disallowed excused when allowed contains it",
			text:       "Acme X1 and Acme X1 Max",
			enforced:   "Acme X1",
			allowed:    []string{"Acme X1 Max"},
			disallowed: []string{"Acme X1 Max"},
			want:       false,
		},
		{
			name: "empty text always triggers",
			text: "",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := compliance.NewContext()
			cc.EnforcedName = tt.enforced
			cc.AllowedNames = tt.allowed
			cc.DisallowedTokens = tt.disallowed

			require.Equal(t, tt.want, compliance.NeedsAlignment(tt.text, cc))
		})
	}
}

func TestEnforcer_Enforce(t *testing.T) {
	ctx := context.Background()

	t.Run("aligned draft skips the rewrite", func(t *testing.T) {
		completer := &fakeCompleter{}
		enforcer := compliance.NewEnforcer(completer, "persona")

		cc := compliance.NewContext()
		cc.EnforcedName = "Acme X1"

		content, tokens := enforcer.Enforce(ctx, "# Title\n\nthe Acme X1 review", affiliateURL, cc)
		require.Contains(t, content, "Acme X1")
		require.Zero(t, tokens)
		require.Zero(t, completer.calls)
	})

	t.Run("misaligned draft gets exactly one rewrite", func(t *testing.T) {
		completer := &fakeCompleter{
			text:   "# [AD] Acme X1 Review\n" + compliance.DefaultDisclosure + "\n\nthe Acme X1 is great",
			tokens: 123,
		}
		enforcer := compliance.NewEnforcer(completer, "persona")

		cc := compliance.NewContext()
		cc.EnforcedName = "Acme X1"

		content, tokens := enforcer.Enforce(ctx, "# Title\n\na review of some vacuum", affiliateURL, cc)
		require.Equal(t, 1, completer.calls)
		require.Contains(t, content, "Acme X1")
		require.Equal(t, 123, tokens)

		// The rewrite call uses the writer purpose with a bounded budget.
		require.Equal(t, domain.PurposeWriter, completer.last.Purpose)
		require.NotNil(t, completer.last.MaxTokens)
	})

	t.Run("rewrite failure keeps the structural draft", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("backend down")}
		enforcer := compliance.NewEnforcer(completer, "persona")

		cc := compliance.NewContext()
		cc.EnforcedName = "Acme X1"

		content, tokens := enforcer.Enforce(ctx, "# Title\n\nsome vacuum", affiliateURL, cc)
		require.Equal(t, 1, completer.calls)
		require.Zero(t, tokens)

		// Structural guarantees still hold on the unrewritten draft.
		lines := strings.Split(content, "\n")
		require.True(t, strings.HasPrefix(lines[0], "# [AD]"))
		require.Equal(t, compliance.DefaultDisclosure, lines[1])
	})

	t.Run("empty rewrite keeps the structural draft", func(t *testing.T) {
		completer := &fakeCompleter{text: ""}
		enforcer := compliance.NewEnforcer(completer, "persona")

		cc := compliance.NewContext()
		cc.EnforcedName = "Acme X1"

		content, tokens := enforcer.Enforce(ctx, "# Title\n\nsome vacuum", affiliateURL, cc)
		require.Zero(t, tokens)
		require.Contains(t, content, "# [AD] Title")
	})

	t.Run("affiliate HTML appended exactly once", func(t *testing.T) {
		completer := &fakeCompleter{}
		enforcer := compliance.NewEnforcer(completer, "persona")

		cc := compliance.NewContext()
		cc.AffiliateHTML = `<iframe src="https://ads.example.com/banner"></iframe>`

		content, _ := enforcer.Enforce(ctx, "# Title\n\nbody", affiliateURL, cc)
		require.Equal(t, 1, strings.Count(content, cc.AffiliateHTML))

		again, _ := enforcer.Enforce(ctx, content, affiliateURL, cc)
		require.Equal(t, 1, strings.Count(again, cc.AffiliateHTML))
	})
}
