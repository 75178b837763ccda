package store

import (
	"regexp"

	"fungen.dev/internal/fungerr"
)

var templateNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateTemplateName enforces spec §3's template-name grammar: unique,
// lower-case, matching ^[a-z0-9_]+$, first character non-numeric, at
// most 255 bytes.
func ValidateTemplateName(name string) error {
	if len(name) == 0 || len(name) > 255 {
		return fungerr.UserInput("template name must be 1-255 bytes, got %d", len(name))
	}
	if !templateNamePattern.MatchString(name) {
		return fungerr.UserInput("template name %q must match ^[a-z0-9_]+$ with a non-numeric first character", name)
	}
	return nil
}
