package extensions

import "strings"

// Canonicalize normalizes a user-supplied extension name to the stored form:
// trimmed, lowercased, with a leading dot ("com" and ".com" both map to ".com").
func Canonicalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	return name
}
