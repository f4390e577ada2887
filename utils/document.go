package utils

import (
	"html"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var stripTags = bluemonday.StrictPolicy()

// ResumeText turns a stored or uploaded resume into plain text for intent
// analysis. Text, markdown and HTML are read; anything else that is not valid
// UTF-8 is reduced to its printable runs.
func ResumeText(content []byte, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".txt", ".md", "":
		if utf8.Valid(content) {
			return strings.TrimSpace(string(content))
		}
	case ".html", ".htm":
		text := html.UnescapeString(stripTags.Sanitize(string(content)))
		return strings.TrimSpace(text)
	}

	var clean strings.Builder
	for _, r := range string(content) {
		if r == utf8.RuneError {
			continue
		}
		if r >= 32 || r == '\n' || r == '\t' {
			clean.WriteRune(r)
		}
	}
	return strings.TrimSpace(clean.String())
}
