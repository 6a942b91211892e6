package normalize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

type markupStripper struct {
	policy *bluemonday.Policy
}

// StripMarkup returns a Sanitizer that removes every HTML element and leaves
// plain text, suitable for terminal output.
func StripMarkup() Sanitizer {
	return markupStripper{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips markup and decodes the entities bluemonday escapes so plain
// text survives unchanged.
func (m markupStripper) Sanitize(value string) string {
	return html.UnescapeString(m.policy.Sanitize(value))
}
