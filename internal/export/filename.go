package export

import "strings"

// FallbackFileBase names exports whose title sanitizes to nothing.
const FallbackFileBase = "export"

// SanitizeFileName replaces every run of characters outside [A-Za-z0-9]
// with a single underscore and trims underscores from both ends.
func SanitizeFileName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteByte(c)
			continue
		}
		pending = true
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// FileBase returns the file name, without extension, of a full-table export.
func FileBase(title string) string {
	if title == "" {
		title = "Untitled"
	}
	if base := SanitizeFileName(title); base != "" {
		return base
	}
	return FallbackFileBase
}

// MergedFileBase returns the file name, without extension, of a
// merged-column export: "<title>_<header>".
func MergedFileBase(title, header string) string {
	var parts []string
	for _, s := range []string{title, header} {
		if p := SanitizeFileName(s); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return FallbackFileBase
	}
	return strings.Join(parts, "_")
}
