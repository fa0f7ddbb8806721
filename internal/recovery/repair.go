package recovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
)

const (
	repairTemperature = 0.0
	repairMaxTokens   = 1200
)

// Repairer asks the model to rewrite arbitrary text into the required
// item-list shape, so strategies 1-5 can be re-run on the result.
type Repairer struct {
	completer domain.Completer
	itemKeys  []string
}

// NewRepairer creates a repairer. itemKeys is the expected key set each
// item object is restricted to.
func NewRepairer(completer domain.Completer, itemKeys []string) *Repairer {
	return &Repairer{
		completer: completer,
		itemKeys:  itemKeys,
	}
}

// Repair requests an AI rewrite of raw into strict JSON. Returns the
// repaired text, or "" when repair itself failed; repair failures are
// logged, never escalated.
func (r *Repairer) Repair(ctx context.Context, raw string) string {
	req := &domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: "system", Content: r.systemPrompt()},
			{Role: "user", Content: fmt.Sprintf(
				"Convert the following text into JSON in the required format:\n\n%s\n\nOutput JSON only.", raw)},
		},
		Temperature: domain.Float(repairTemperature),
		MaxTokens:   domain.Int(repairMaxTokens),
		ForceJSON:   true,
		Purpose:     domain.PurposeSmall,
	}

	res, err := r.completer.Complete(ctx, req)
	if err != nil {
		observability.FromContext(ctx).Warn("JSON repair failed", observability.Error(err))
		return ""
	}
	return res.Text
}

func (r *Repairer) systemPrompt() string {
	return "Role: JSON data cleaner. Extract the item candidate list from the input text and convert it to valid JSON.\n" +
		"Rules:\n" +
		"- Output MUST be JSON only. No code fences, no explanations, no comments.\n" +
		"- Final shape: either a JSON array ([..]) or {\"items\":[..]}. Array elements must be objects.\n" +
		"- Each object's keys: " + strings.Join(r.itemKeys, ", ") + ". Values are strings or null.\n" +
		"- 5 to 12 items. When unclear, fill in as reasonably as possible.\n"
}
