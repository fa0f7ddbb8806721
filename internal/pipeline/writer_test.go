package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/emberpost/internal/compliance"
	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/pipeline"
)

func TestWriter_Generate(t *testing.T) {
	ctx := context.Background()

	candidate := domain.ProductCandidate{
		TitleGuess: "Acme X1 Robot Vacuum",
		Brand:      "Acme",
		Model:      "X1",
		PriceBand:  "$200-300",
	}

	t.Run("produces a structurally compliant draft", func(t *testing.T) {
		completer := &fakeCompleter{responses: []domain.CompletionResult{{
			Text:        "# Acme X1 Review\n\nA quiet and capable robot vacuum.\n\n## What I liked\n\nplenty",
			TotalTokens: domain.Int(900),
			Model:       "gpt-4o-mini",
		}}}
		meter := &recordingMeter{}
		writer := pipeline.NewWriter(completer, compliance.NewEnforcer(completer, "persona"), meter)

		draft, err := writer.Generate(ctx, "robot vacuum", candidate, "https://aff.example.com/x1", pipeline.GenerateOptions{})
		require.NoError(t, err)

		lines := strings.Split(draft.Content, "\n")
		require.Equal(t, "# [AD] Acme X1 Review", lines[0])
		require.Equal(t, compliance.DefaultDisclosure, lines[1])
		require.Contains(t, draft.Content, "https://aff.example.com/x1")

		require.Equal(t, "[AD] Acme X1 Review", draft.Title)
		require.Equal(t, []string{"robotvacuum", "affiliate"}, draft.Tags)
		require.NotNil(t, draft.TotalTokens)
		require.Equal(t, 900, *draft.TotalTokens)

		require.Equal(t, []int{900}, meter.tokens)
	})

	t.Run("writer call uses the long-form settings", func(t *testing.T) {
		completer := &fakeCompleter{responses: []domain.CompletionResult{{Text: "# T\n\nbody"}}}
		writer := pipeline.NewWriter(completer, compliance.NewEnforcer(completer, "persona"), nil)

		_, err := writer.Generate(ctx, "kettle", candidate, "https://aff.example.com", pipeline.GenerateOptions{})
		require.NoError(t, err)
		require.NotEmpty(t, completer.requests)

		req := completer.requests[0]
		require.Equal(t, domain.PurposeWriter, req.Purpose)
		require.False(t, req.ForceJSON)
		require.NotNil(t, req.Temperature)
		require.InDelta(t, 0.8, *req.Temperature, 0.0001)
	})

	t.Run("missing token usage falls back to an estimate", func(t *testing.T) {
		completer := &fakeCompleter{responses: []domain.CompletionResult{{Text: "# T\n\nbody"}}}
		meter := &recordingMeter{}
		writer := pipeline.NewWriter(completer, compliance.NewEnforcer(completer, "persona"), meter)

		draft, err := writer.Generate(ctx, "kettle", candidate, "https://aff.example.com", pipeline.GenerateOptions{})
		require.NoError(t, err)
		require.NotNil(t, draft.TotalTokens)
		require.Equal(t, 800, *draft.TotalTokens)
		require.Equal(t, []int{800}, meter.tokens)
	})

	t.Run("rewrite tokens are added to the total", func(t *testing.T) {
		completer := &fakeCompleter{responses: []domain.CompletionResult{
			{Text: "# Review\n\na review that never names the product", TotalTokens: domain.Int(1000)},
			{Text: "# Review\n\nthe Acme X1 named properly", TotalTokens: domain.Int(250)},
		}}
		meter := &recordingMeter{}
		writer := pipeline.NewWriter(completer, compliance.NewEnforcer(completer, "persona"), meter)

		draft, err := writer.Generate(ctx, "vacuum", candidate, "https://aff.example.com", pipeline.GenerateOptions{
			EnforceProductName: "Acme X1",
		})
		require.NoError(t, err)
		require.Len(t, completer.requests, 2)
		require.Equal(t, 1250, *draft.TotalTokens)
		require.Contains(t, draft.Content, "Acme X1")
	})

	t.Run("affiliate HTML rides through options", func(t *testing.T) {
		banner := `<iframe src="https://ads.example.com/b"></iframe>`
		completer := &fakeCompleter{responses: []domain.CompletionResult{{Text: "# T\n\nbody"}}}
		writer := pipeline.NewWriter(completer, compliance.NewEnforcer(completer, "persona"), nil)

		draft, err := writer.Generate(ctx, "kettle", candidate, "https://aff.example.com", pipeline.GenerateOptions{
			AffiliateHTML: banner,
		})
		require.NoError(t, err)
		require.Equal(t, 1, strings.Count(draft.Content, banner))
	})

	t.Run("spec table and sources reach the prompt", func(t *testing.T) {
		completer := &fakeCompleter{responses: []domain.CompletionResult{{Text: "# T\n\nbody"}}}
		writer := pipeline.NewWriter(completer, compliance.NewEnforcer(completer, "persona"), nil)

		table := "| spec | value |\n|---|---|\n| weight | 2kg |"
		_, err := writer.Generate(ctx, "kettle", candidate, "https://aff.example.com", pipeline.GenerateOptions{
			SpecTableMD: table,
			Sources:     []string{"https://maker.example.com/specs"},
		})
		require.NoError(t, err)

		prompt := completer.requests[0].Messages[1].Content
		require.Contains(t, prompt, table)
		require.Contains(t, prompt, "https://maker.example.com/specs")
	})
}

func TestBuildUserPrompt_Templates(t *testing.T) {
	candidate := domain.ProductCandidate{Brand: "Acme", Model: "X1"}

	tests := []struct {
		template string
		marker   string
	}{
		{template: "", marker: "hands-on review"},
		{template: "review", marker: "hands-on review"},
		{template: "comparison", marker: "comparison guide"},
		{template: "curation", marker: "list/curation"},
		{template: "howto", marker: "problem solving"},
		{template: "seasonal", marker: "seasonal/sale special"},
		{template: "SEASONAL", marker: "seasonal/sale special"},
		{template: "unknown", marker: "hands-on review"},
	}

	for _, tt := range tests {
		t.Run("template "+tt.template, func(t *testing.T) {
			fresh := &fakeCompleter{responses: []domain.CompletionResult{{Text: "# T\n\nbody"}}}
			w := pipeline.NewWriter(fresh, compliance.NewEnforcer(fresh, "persona"), nil)

			_, err := w.Generate(context.Background(), "kw", candidate, "https://aff.example.com", pipeline.GenerateOptions{
				TemplateType: tt.template,
			})
			require.NoError(t, err)
			require.Contains(t, fresh.requests[0].Messages[1].Content, tt.marker)
		})
	}
}
