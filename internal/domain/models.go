package domain

// Purpose selects which configured model a request should use.
type Purpose string

const (
	// PurposeSmall is for cheap structured tasks (item scouting, JSON repair).
	PurposeSmall Purpose = "small"

	// PurposeWriter is for long-form document generation.
	PurposeWriter Purpose = "writer"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// CompletionRequest represents a unified generation request.
// Model is resolved from Purpose by the pipeline when left empty.
type CompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	ForceJSON   bool      `json:"force_json,omitempty"`
	Purpose     Purpose   `json:"purpose,omitempty"`
}

// CompletionResult represents a unified generation result.
// TotalTokens is nil when the backend did not report usage; any fallback
// estimate is the caller's responsibility.
type CompletionResult struct {
	Text        string `json:"text"`
	TotalTokens *int   `json:"total_tokens,omitempty"`
	Model       string `json:"model,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// ProductCandidate is one recovered item from the scouting call.
type ProductCandidate struct {
	TitleGuess string `json:"title_guess"`
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	PriceBand  string `json:"price_band"`
	Why        string `json:"why"`
	ImageHint  string `json:"image_hint"`
	ProductURL string `json:"product_url"`
	DedupeKey  string `json:"dedupe_key"`
}

// Draft is the final output of the document-generation pipeline.
type Draft struct {
	Content     string   `json:"content"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	TotalTokens *int     `json:"total_tokens,omitempty"`
}

// Float returns a pointer to v. Convenience for optional request fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v. Convenience for optional request fields.
func Int(v int) *int { return &v }
