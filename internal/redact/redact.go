// Package redact strips credentials and other sensitive fragments from
// strings before they are logged or attached to error responses. Errors that
// bubble up from the database driver, the Redis client, or the LLM client can
// embed connection URLs, tokens, or API keys; nothing in this service should
// write those to a log line.
package redact

import "regexp"

// Redaction placeholders.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order; more specific patterns run first so a JWT in a
// connection URL is not half-replaced by a broader rule.
var rules = []rule{
	// Three-part base64url JWT tokens.
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), JWTPlaceholder},
	// userinfo section of postgres/redis connection URLs.
	{regexp.MustCompile(`(?i)(postgres|postgresql|redis|rediss)://[^@/\s]+@`), CredentialPlaceholder},
	// key=value style secrets: password, api_key, token, secret.
	{regexp.MustCompile(`(?i)(password|passwd|api[_-]?key|token|secret)(['"\s:=]+)[^'"&\s]{4,}`), KeyPlaceholder},
	// Email addresses (profile data owned by the identity subsystem).
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), EmailPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
// A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
