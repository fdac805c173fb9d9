package triggers

import "strings"

// Normalize maps a trigger name to its canonical tag: lower-cased, keeping only [a-z0-9].
// It is total and idempotent. Different names may share a canonical tag.
func Normalize(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
