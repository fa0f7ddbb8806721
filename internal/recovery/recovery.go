// Package recovery turns raw model text into a list of JSON item objects
// through an ordered chain of increasingly lossy strategies, falling back
// to an AI-assisted repair pass. Cheaper, more precise strategies run
// before lossy ones; ordering is a correctness requirement.
package recovery

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/davidbz/emberpost/internal/observability"
)

// Item is one recovered JSON object.
type Item = map[string]any

// wrapper keys tried, in order, when the model returned an object
// instead of a bare array.
var wrapperKeys = []string{"items", "data", "results"}

var fencePattern = regexp.MustCompile("(?m)^```[a-zA-Z]*\\n|\\n```$")

// Chain runs the deterministic strategies and, when all of them come up
// empty, a single AI repair pass followed by a re-run of the strategies.
type Chain struct {
	repairer *Repairer
}

// NewChain creates a recovery chain. repairer may be nil to disable the
// AI repair fallback.
func NewChain(repairer *Repairer) *Chain {
	return &Chain{repairer: repairer}
}

// Recover extracts a list of item objects from raw model output.
// It never fails; an empty slice means every strategy was exhausted and
// the caller should surface a parse error.
func (c *Chain) Recover(ctx context.Context, raw string) []Item {
	items := Parse(raw)
	if len(items) > 0 {
		return items
	}

	if c.repairer == nil {
		return nil
	}

	logger := observability.FromContext(ctx)
	logger.Warn("all deterministic parse strategies failed, trying repair pass")

	fixed := c.repairer.Repair(ctx, raw)
	if fixed == "" {
		return nil
	}

	items = Parse(fixed)
	if len(items) == 0 {
		logger.Error("repair pass produced unparseable output",
			observability.String("sample", truncate(fixed, 300)))
	}
	return items
}

// Parse runs the deterministic strategies in strict order and returns
// the first non-empty result:
//  1. strict parse of the entire text as a JSON array
//  2. strip Markdown code fences, then strict parse
//  3. bracket scan: first '[' to last ']'
//  4. object wrapper: first '{' to last '}', items/data/results key
//  5. salvage scan of a truncated array
func Parse(text string) []Item {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if items := parseArray(text); len(items) > 0 {
		return items
	}

	cleaned := fencePattern.ReplaceAllString(text, "\n")
	if cleaned != text {
		if items := parseArray(cleaned); len(items) > 0 {
			return items
		}
	}

	if items := parseBracketSpan(cleaned); len(items) > 0 {
		return items
	}

	if items := parseObjectWrapper(text); len(items) > 0 {
		return items
	}

	return Salvage(text)
}

// parseArray strictly parses s as a JSON array of objects.
func parseArray(s string) []Item {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}
	return decodeElements(raw)
}

// parseBracketSpan parses the substring between the first '[' and the
// last ']' as a JSON array.
func parseBracketSpan(s string) []Item {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	return parseArray(s[start : end+1])
}

// parseObjectWrapper parses s (or the first '{' to last '}' span of s)
// as an object and reads the array from the first present wrapper key.
func parseObjectWrapper(s string) []Item {
	if items := wrappedArray(s); len(items) > 0 {
		return items
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	return wrappedArray(s[start : end+1])
}

func wrappedArray(s string) []Item {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	for _, key := range wrapperKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			continue
		}
		if items := decodeElements(elems); len(items) > 0 {
			return items
		}
	}
	return nil
}

// decodeElements keeps only elements that decode as objects. A single
// non-object element rejects the whole list: the expected shape is a
// list of item objects, and partial acceptance here would mask a
// malformed response that a later strategy may recover better.
func decodeElements(raw []json.RawMessage) []Item {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		var item Item
		if err := json.Unmarshal(r, &item); err != nil {
			return nil
		}
		items = append(items, item)
	}
	return items
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
