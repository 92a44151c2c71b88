package domain

import "strings"

// ServiceRef identifies the requested service category.
type ServiceRef struct {
	Label string `json:"label"`
	Key   string `json:"normalizedKey"`
}

// Summary is the structured result of a completed intake.
type Summary struct {
	Service   ServiceRef `json:"service"`
	Emergency bool       `json:"emergency"`
	Answers   []Answer   `json:"answers"`
}

// NormalizeServiceKey lowercases label, collapses runs of characters outside
// [a-z0-9] into a single underscore and trims leading/trailing underscores.
// Keys are ASCII only, so "Café" becomes "caf".
func NormalizeServiceKey(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	pendingSep := false
	for _, r := range strings.ToLower(label) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// IsEmergencyAnswer parses an emergency answer loosely: any answer starting
// with "y" (case-insensitive) counts, as does an exact "yes".
func IsEmergencyAnswer(answer string) bool {
	clean := strings.ToLower(strings.TrimSpace(answer))
	return strings.HasPrefix(clean, "y") || clean == "yes"
}
