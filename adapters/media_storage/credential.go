package media_storage

import "strings"

const minKeyLength = 40

var placeholderKeys = []string{
	"ANON_KEY_NOT_FOUND",
	"your-anon-key",
	"your_api_key",
	"changeme",
}

// LooksLikeKey is the heuristic shape check for a storage access key: set,
// long enough to be a real token, and not a template placeholder left in an
// env file.
func LooksLikeKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" || len(key) < minKeyLength {
		return false
	}
	if strings.Contains(key, "process.env") || strings.Contains(key, "${") {
		return false
	}
	for _, p := range placeholderKeys {
		if strings.EqualFold(key, p) {
			return false
		}
	}
	return true
}

func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.Contains(v, "${") {
		return true
	}
	for _, p := range placeholderKeys {
		if strings.EqualFold(v, p) {
			return true
		}
	}
	return false
}
