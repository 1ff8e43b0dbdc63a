package normalize

import "strings"

// splitLines splits multi-line free text into trimmed, non-empty lines.
func splitLines(s string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		line = collapseWhitespace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitList splits a comma-separated list into trimmed, non-empty items.
func splitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		item = collapseWhitespace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// collapseWhitespace trims s and folds internal runs of whitespace into
// single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitHeading splits a "Heading: body" line. The heading must be non-empty
// and short enough to plausibly be a label rather than prose.
func splitHeading(line string) (heading, body string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	heading = strings.TrimSpace(line[:idx])
	if heading == "" || strings.Contains(heading, ",") {
		return "", "", false
	}
	return heading, strings.TrimSpace(line[idx+1:]), true
}

// splitHeadingParts splits a role heading line on "|" into its trimmed parts.
// The result always has at least one element.
func splitHeadingParts(line string) []string {
	raw := strings.Split(line, "|")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := collapseWhitespace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "")
	}
	return parts
}

// splitDash splits "left - right" into its halves; when no dash separator is
// present the whole line is the left half.
func splitDash(line string) (left, right string) {
	for _, sep := range []string{" - ", " – ", " — "} {
		if idx := strings.Index(line, sep); idx >= 0 {
			return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+len(sep):])
		}
	}
	return strings.TrimSpace(line), ""
}

// hasBulletMarker reports whether a line carries an explicit bullet prefix.
func hasBulletMarker(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•")
}

// trimBulletMarker strips a leading bullet prefix from a line.
func trimBulletMarker(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
}

// containsString reports whether items contains s.
func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
