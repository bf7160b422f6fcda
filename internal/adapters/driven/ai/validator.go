package ai

import "strings"

// minCredentialLength is the shortest length a real API key can have.
// Anything shorter is treated as a placeholder.
const minCredentialLength = 20

// placeholderPrefixes are values people leave in .env templates.
var placeholderPrefixes = []string{
	"sk-your",
	"your-",
	"changeme",
	"change-me",
	"xxx",
	"<",
}

// CredentialLooksValid reports whether a credential is worth probing:
// present, not an obvious placeholder, and long enough to be a real key.
// It does not validate the key against the provider; the chain's probe
// does that.
func CredentialLooksValid(key string) bool {
	key = strings.TrimSpace(key)
	if len(key) < minCredentialLength {
		return false
	}
	lower := strings.ToLower(key)
	for _, prefix := range placeholderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}
