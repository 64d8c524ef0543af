package cache

import "strings"

// KeyPrefix namespaces every key this service writes, so a shared Redis stays tidy.
const KeyPrefix = "quizmaster"

// Key joins the non-empty parts under KeyPrefix with ":".
func Key(parts ...string) string {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, KeyPrefix)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return strings.Join(segments, ":")
}

// SessionKey is the key under which a quiz session is stored.
func SessionKey(sessionID string) string {
	return Key("session", "state", sessionID)
}
