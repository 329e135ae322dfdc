// Package sanitize strips markup from client-submitted field values
// before they reach the ledger.
package sanitize

import "github.com/microcosm-cc/bluemonday"

// policy removes every tag and attribute; plain text content survives.
var policy = bluemonday.StrictPolicy()

// Map returns a copy of input with every string value run through the
// strict HTML policy. Non-string values pass through unchanged and the
// key set is preserved exactly. Applying Map twice yields the same
// result as applying it once.
func Map(input map[string]any) map[string]any {
	sanitized := make(map[string]any, len(input))
	for key, value := range input {
		if s, ok := value.(string); ok {
			sanitized[key] = policy.Sanitize(s)
		} else {
			sanitized[key] = value
		}
	}
	return sanitized
}
