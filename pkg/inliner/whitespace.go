package inliner

import (
	"regexp"
	"strings"
)

var (
	interTagSpace = regexp.MustCompile(`>\s+<`)
	bodyContent   = regexp.MustCompile(`(?is)<body[^>]*>(.*)</body>`)
)

// RemoveWhitespace drops whitespace runs between adjacent tags and trims
// the result. Whitespace inside text content is left alone.
func RemoveWhitespace(html string) string {
	return strings.TrimSpace(interTagSpace.ReplaceAllString(html, "><"))
}

// ExtractBody returns the markup between the opening and the last closing
// body tag, or html unchanged when it has no body element.
func ExtractBody(html string) string {
	if m := bodyContent.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return html
}
