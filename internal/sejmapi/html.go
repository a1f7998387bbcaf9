package sejmapi

import (
	"regexp"
	"strings"
)

// htmlEntities is the fixed entity table the transform decodes.
var htmlEntities = map[string]string{
	"&nbsp;": " ",
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": "\"",
	"&#39;":  "'",
	"&apos;": "'",
}

var (
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
	brRe         = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockCloseRe = regexp.MustCompile(`(?i)</(p|div|tr|li|h[1-6]|section|article|table)\s*>`)
	tagRe        = regexp.MustCompile(`(?s)<[^>]+>`)
	wsRe         = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// StatementTextFromHTML converts a statement's HTML body to plain text
// via a deterministic transform: strip <script>/<style>/comments;
// <br> -> newline; closing block tags -> blank line; strip remaining
// tags; decode the fixed entity table; collapse whitespace.
//
// Idempotent on already-clean text (no tags, no entities).
func StatementTextFromHTML(html string) string {
	text := stripScriptsAndStyles(html)
	text = commentRe.ReplaceAllString(text, "")
	text = brRe.ReplaceAllString(text, "\n")
	text = blockCloseRe.ReplaceAllString(text, "\n\n")
	text = tagRe.ReplaceAllString(text, "")
	text = decodeEntities(text)
	text = wsRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// stripScriptsAndStyles removes <script>...</script> and <style>...</style>
// elements, tag name included, case-insensitively, without relying on a
// backreference (Go's regexp/RE2 has none).
func stripScriptsAndStyles(html string) string {
	for _, tag := range []string{"script", "style"} {
		html = removeElement(html, tag)
	}
	return html
}

func removeElement(html, tag string) string {
	lower := strings.ToLower(html)
	open := "<" + tag
	closeTag := "</" + tag + ">"
	for {
		start := strings.Index(lower, open)
		if start == -1 {
			break
		}
		tagEnd := strings.Index(lower[start:], ">")
		if tagEnd == -1 {
			break
		}
		end := strings.Index(lower[start:], closeTag)
		if end == -1 {
			html = html[:start]
			break
		}
		end += start + len(closeTag)
		html = html[:start] + html[end:]
		lower = strings.ToLower(html)
	}
	return html
}

func decodeEntities(text string) string {
	for entity, repl := range htmlEntities {
		text = strings.ReplaceAll(text, entity, repl)
	}
	return text
}
