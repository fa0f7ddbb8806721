package openai

import (
	"strings"

	"github.com/davidbz/emberpost/internal/domain"
)

// disableUnsupported inspects a backend error message and clears the
// one capability flag the message rejects, if any. Returns the updated
// flags and whether anything changed (changed=false means the error is
// not a parameter rejection and the retry loop should stop).
//
// This is substring matching against third-party error text and is
// inherently brittle across API versions; it is kept in this one
// function so the heuristic can be revised without touching the retry
// loop. Only flags that are still enabled are considered, so a
// rejection of a parameter we never sent cannot trigger a retry.
func disableUnsupported(msg string, caps domain.Capabilities) (domain.Capabilities, bool) {
	if caps.MaxTokens &&
		strings.Contains(msg, "max_tokens") &&
		(strings.Contains(msg, "Unsupported parameter") || strings.Contains(msg, "unsupported_parameter")) {
		caps.MaxTokens = false
		return caps, true
	}

	if caps.Temperature &&
		strings.Contains(msg, "temperature") &&
		(strings.Contains(msg, "Unsupported value") || strings.Contains(msg, "unsupported_value")) {
		caps.Temperature = false
		return caps, true
	}

	if caps.StructuredOutput &&
		(strings.Contains(msg, "response_format") || strings.Contains(msg, "json")) {
		caps.StructuredOutput = false
		return caps, true
	}

	return caps, false
}
