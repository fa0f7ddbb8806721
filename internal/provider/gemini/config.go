package gemini

// Config contains Gemini provider configuration.
// SafetyMode maps to safety-filter thresholds applied uniformly across
// harm categories: "low" blocks only high severity, "none" disables
// blocking, anything else blocks medium and above.
type Config struct {
	APIKey     string `env:"GEMINI_API_KEY"`
	BaseURL    string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout    int    `env:"GEMINI_TIMEOUT"  envDefault:"120"`
	SafetyMode string `env:"GEMINI_SAFETY"   envDefault:"low"`
}
