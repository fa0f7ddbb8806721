package observability

import "go.uber.org/zap"

// Re-exported zap field constructors so callers outside this package do
// not need a direct zap import for structured fields.
var (
	String  = zap.String
	Int     = zap.Int
	Bool    = zap.Bool
	Float64 = zap.Float64
	Error   = zap.Error
	Strings = zap.Strings
)
