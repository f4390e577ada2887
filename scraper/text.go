package scraper

import (
	"html"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
)

var (
	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	strictPolicy = bluemonday.StrictPolicy()

	mdLinkRe     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdEmphasisRe = regexp.MustCompile(`(\*\*|__|\*|_)([^*_\n]+)(\*\*|__|\*|_)`)
	mdHeadingRe  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBulletRe   = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
)

// textify converts a description fragment to plain text. Line structure is
// kept and list items become "- " lines so section scans still work.
func textify(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	if !strings.Contains(fragment, "<") {
		return normalizeLines(html.UnescapeString(fragment))
	}

	md, err := mdConverter.ConvertString(fragment)
	if err != nil {
		return normalizeLines(html.UnescapeString(strictPolicy.Sanitize(fragment)))
	}

	md = mdLinkRe.ReplaceAllString(md, "$1")
	md = mdHeadingRe.ReplaceAllString(md, "")
	md = mdBulletRe.ReplaceAllString(md, "- ")
	md = mdEmphasisRe.ReplaceAllString(md, "$2")
	md = strings.ReplaceAll(md, `\-`, "-")
	md = strings.ReplaceAll(md, `\*`, "*")
	return normalizeLines(md)
}

func normalizeLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankRunRe.ReplaceAllString(s, "\n\n"))
}

// cleanField strips markup from a single-line value
func cleanField(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}
