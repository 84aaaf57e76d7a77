// Package guid canonicalises the project identities found in solutions,
// override files and encoded configuration streams.
//
// The canonical form is upper-case, hyphenated and without braces, e.g.
// "6DE93070-C47B-4FA6-86FF-421115654E6C". Every comparison between
// identities happens on this form.
package guid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Canonical parses s in any form accepted by uuid.Parse (bare, braced, urn)
// after trimming surrounding quotes and whitespace, and returns the
// canonical form.
func Canonical(s string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), `"`)
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid project identity %q: %w", s, err)
	}
	return strings.ToUpper(id.String()), nil
}

// Braced returns the canonical identity wrapped in braces.
func Braced(s string) (string, error) {
	c, err := Canonical(s)
	if err != nil {
		return "", err
	}
	return "{" + c + "}", nil
}
