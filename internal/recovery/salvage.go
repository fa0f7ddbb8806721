package recovery

import (
	"encoding/json"
	"strings"
)

// Salvage recovers the longest valid prefix of a JSON array from text
// that was truncated before generation completed. It locates the array
// start (via an "items" key hint when present, else the first '['),
// then walks characters tracking brace depth; each {...} fragment that
// closes at depth zero is parsed independently and appended on success.
// Scanning stops at the array's closing ']' or at the first fragment
// that fails to parse.
//
// The scanner ignores braces and brackets inside string literals,
// including escaped quotes, so items containing "{" or "}" in text
// fields do not corrupt the depth count.
func Salvage(text string) []Item {
	if text == "" {
		return nil
	}

	arrStart := -1
	if hint := strings.Index(text, `"items"`); hint != -1 {
		arrStart = strings.Index(text[hint:], "[")
		if arrStart != -1 {
			arrStart += hint
		}
	}
	if arrStart == -1 {
		arrStart = strings.Index(text, "[")
	}
	if arrStart == -1 {
		return nil
	}

	var (
		out      []Item
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)

	for i := arrStart + 1; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start != -1 {
				var item Item
				if err := json.Unmarshal([]byte(text[start:i+1]), &item); err != nil {
					return out
				}
				out = append(out, item)
				start = -1
			}
		case ']':
			if depth == 0 {
				return out
			}
		}
	}

	return out
}
