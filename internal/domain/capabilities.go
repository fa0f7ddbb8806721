package domain

// Capabilities tracks which optional request parameters are currently
// enabled for one logical completion call. All flags start true; a flag
// may only transition true to false within one request's retry loop,
// never back. Backends clear flags when they reject the parameter.
type Capabilities struct {
	Temperature      bool
	MaxTokens        bool
	StructuredOutput bool
}

// FullCapabilities returns the initial state with every flag enabled.
func FullCapabilities() Capabilities {
	return Capabilities{
		Temperature:      true,
		MaxTokens:        true,
		StructuredOutput: true,
	}
}

// SubsetOf reports whether c's enabled flags are a subset of o's.
// Used to verify the monotonic non-increasing property across retries.
func (c Capabilities) SubsetOf(o Capabilities) bool {
	if c.Temperature && !o.Temperature {
		return false
	}
	if c.MaxTokens && !o.MaxTokens {
		return false
	}
	if c.StructuredOutput && !o.StructuredOutput {
		return false
	}
	return true
}

// Count returns the number of enabled flags.
func (c Capabilities) Count() int {
	n := 0
	for _, on := range []bool{c.Temperature, c.MaxTokens, c.StructuredOutput} {
		if on {
			n++
		}
	}
	return n
}
