// Package personalize performs template token substitution for outgoing
// email subjects and bodies. It is pure string transformation: no I/O,
// no side effects, and it never fails.
package personalize

import (
	"regexp"
	"strings"
)

// tokenRegex matches the supported placeholder tokens, case-insensitively.
// Anything else that merely looks like a placeholder is left verbatim.
var tokenRegex = regexp.MustCompile(`(?i)\{(first_name|last_name|company_name|email)\}`)

// Apply replaces the placeholder tokens {first_name}, {last_name},
// {company_name} and {email} in template with the corresponding values
// from fields. Token matching is case-insensitive. Missing fields
// substitute as the empty string. Unrecognized placeholder syntax is
// preserved untouched.
func Apply(template string, fields map[string]string) string {
	if template == "" {
		return template
	}
	return tokenRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.ToLower(match[1 : len(match)-1])
		return fields[key]
	})
}
