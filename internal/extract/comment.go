package extract

import "strings"

// NormalizeComment turns raw comment text into a single readable line.
//
// Block comments (/** */ and /* */) lose their markers and the leading
// asterisk of each line; the remaining non-blank lines are joined with a
// single space. Line comments lose their slashes. Anything else is trimmed.
// Empty input yields "".
func NormalizeComment(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case text == "", text == "/**/":
		return ""
	case strings.HasPrefix(text, "/**"):
		return normalizeBlock(strings.TrimPrefix(text, "/**"))
	case strings.HasPrefix(text, "/*"):
		return normalizeBlock(strings.TrimPrefix(text, "/*"))
	case strings.HasPrefix(text, "//"):
		return strings.TrimSpace(strings.TrimLeft(text, "/"))
	default:
		return text
	}
}

// normalizeBlock handles a block comment body with the opening marker removed.
func normalizeBlock(body string) string {
	body = strings.TrimSuffix(body, "*/")

	var parts []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
