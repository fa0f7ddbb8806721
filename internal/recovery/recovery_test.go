package recovery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/recovery"
)

// fakeCompleter is a canned-response completer for repair tests.
type fakeCompleter struct {
	text  string
	err   error
	calls int
	last  *domain.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CompletionResult{Text: f.text, TotalTokens: domain.Int(10)}, nil
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "strict JSON array",
			input: `[{"brand":"A"},{"brand":"B"}]`,
			want:  2,
		},
		{
			name:  "fenced code block",
			input: "```json\n[{\"a\":1}]\n```",
			want:  1,
		},
		{
			name:  "fence without language tag",
			input: "```\n[{\"a\":1},{\"a\":2}]\n```",
			want:  2,
		},
		{
			name:  "array embedded in prose",
			input: `Here are your items: [{"brand":"A"}] hope that helps!`,
			want:  1,
		},
		{
			name:  "object wrapper with items key",
			input: `{"items":[{"brand":"A"},{"brand":"B"},{"brand":"C"}]}`,
			want:  3,
		},
		{
			name:  "object wrapper with data key",
			input: `{"data":[{"brand":"A"}]}`,
			want:  1,
		},
		{
			name:  "object wrapper with results key",
			input: `{"results":[{"brand":"A"},{"brand":"B"}]}`,
			want:  2,
		},
		{
			name:  "wrapper embedded in prose",
			input: `Sure! {"items":[{"brand":"A"}]} Done.`,
			want:  1,
		},
		{
			name:  "truncated array salvages complete prefix",
			input: `[{"a":1},{"a":2},{"a"`,
			want:  2,
		},
		{
			name:  "truncated wrapper salvages complete prefix",
			input: `{"items": [{"brand":"A"},{"brand":"B"},{"bra`,
			want:  2,
		},
		{
			name:  "empty input",
			input: "",
			want:  0,
		},
		{
			name:  "whitespace only",
			input: "   \n\t  ",
			want:  0,
		},
		{
			name:  "plain prose with no JSON",
			input: "I cannot answer that question.",
			want:  0,
		},
		{
			name:  "array of scalars is rejected",
			input: `[1, 2, 3]`,
			want:  0,
		},
		{
			name:  "mixed elements rejected strictly, objects salvaged",
			input: `[{"a":1}, 2]`,
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := recovery.Parse(tt.input)
			require.Len(t, items, tt.want)
		})
	}
}

func TestParse_PreservesFieldValues(t *testing.T) {
	items := recovery.Parse(`[{"brand":"Acme","model":"X1"}]`)
	require.Len(t, items, 1)
	require.Equal(t, "Acme", items[0]["brand"])
	require.Equal(t, "X1", items[0]["model"])
}

func TestParse_FencedWrapperObject(t *testing.T) {
	input := "```json\n{\"items\":[{\"brand\":\"A\"},{\"brand\":\"B\"}]}\n```"
	items := recovery.Parse(input)
	require.Len(t, items, 2)
}

func TestSalvage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "truncated mid key",
			input: `[{"a":1},{"a":2},{"a`,
			want:  2,
		},
		{
			name:  "truncated mid value",
			input: `[{"title":"one"},{"title":"tw`,
			want:  1,
		},
		{
			name:  "braces inside string values",
			input: `[{"why":"best {budget} pick"},{"why":"uses } a lot"},{"wh`,
			want:  2,
		},
		{
			name:  "escaped quotes inside strings",
			input: `[{"why":"he said \"buy {this}\""},{"brand":"B"},{"x`,
			want:  2,
		},
		{
			name:  "nested objects count as one item",
			input: `[{"a":{"b":{"c":1}}},{"a":2},{"tr`,
			want:  2,
		},
		{
			name:  "stops at closing bracket",
			input: `[{"a":1},{"a":2}] trailing garbage {"a":3}`,
			want:  2,
		},
		{
			name:  "items key hint skips earlier brackets",
			input: `{"note":"[ignore me]","items":[{"a":1},{"a":2},{"a`,
			want:  2,
		},
		{
			name:  "no array at all",
			input: `just some text { with braces }`,
			want:  0,
		},
		{
			name:  "empty string",
			input: "",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := recovery.Salvage(tt.input)
			require.Len(t, items, tt.want)
		})
	}
}

func TestChain_Recover(t *testing.T) {
	ctx := context.Background()

	t.Run("deterministic parse skips repair", func(t *testing.T) {
		completer := &fakeCompleter{text: `[{"a":1}]`}
		chain := recovery.NewChain(recovery.NewRepairer(completer, []string{"a"}))

		items := chain.Recover(ctx, `[{"brand":"A"}]`)
		require.Len(t, items, 1)
		require.Zero(t, completer.calls)
	})

	t.Run("repair pass recovers prose", func(t *testing.T) {
		completer := &fakeCompleter{text: `{"items":[{"brand":"A"},{"brand":"B"}]}`}
		chain := recovery.NewChain(recovery.NewRepairer(completer, []string{"brand"}))

		items := chain.Recover(ctx, "1. Acme X1 - a solid pick\n2. Bravo Y2 - cheaper option")
		require.Len(t, items, 2)
		require.Equal(t, 1, completer.calls)

		// The repair call must be cheap, deterministic, and structured.
		require.NotNil(t, completer.last.Temperature)
		require.InDelta(t, 0.0, *completer.last.Temperature, 0.0001)
		require.True(t, completer.last.ForceJSON)
		require.Equal(t, domain.PurposeSmall, completer.last.Purpose)
	})

	t.Run("repair failure yields empty result", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("boom")}
		chain := recovery.NewChain(recovery.NewRepairer(completer, []string{"brand"}))

		items := chain.Recover(ctx, "no json here")
		require.Empty(t, items)
		require.Equal(t, 1, completer.calls)
	})

	t.Run("repair output still unparseable yields empty result", func(t *testing.T) {
		completer := &fakeCompleter{text: "still not json"}
		chain := recovery.NewChain(recovery.NewRepairer(completer, []string{"brand"}))

		items := chain.Recover(ctx, "no json here")
		require.Empty(t, items)
	})

	t.Run("nil repairer disables fallback", func(t *testing.T) {
		chain := recovery.NewChain(nil)

		items := chain.Recover(ctx, "no json here")
		require.Empty(t, items)
	})
}
