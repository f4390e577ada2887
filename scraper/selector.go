package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed page plus the URL it was served from
type Document struct {
	Root *html.Node
	URL  *url.URL
}

// ParseDocument parses an HTML body
func ParseDocument(body []byte, pageURL string) (*Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url: %w", err)
	}
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{Root: root, URL: u}, nil
}

// All returns every node matching selector. Supported syntax is a subset of
// CSS: tag, .class, #id, [attr], [attr=val], [attr*=val], [attr^=val],
// [attr$=val], descendant combinators and comma-separated alternatives.
func (d *Document) All(selector string) []*html.Node {
	return queryAll(d.Root, selector)
}

// First returns the first node matching any of the selectors, tried in order
func (d *Document) First(selectors ...string) *html.Node {
	for _, sel := range selectors {
		if nodes := queryAll(d.Root, sel); len(nodes) > 0 {
			return nodes[0]
		}
	}
	return nil
}

// Text returns the text of the first match with non-empty text
func (d *Document) Text(selectors ...string) string {
	return firstText(d.Root, selectors, 0)
}

// ShortText is Text restricted to matches no longer than max bytes,
// which keeps layout containers out of single-value fields
func (d *Document) ShortText(max int, selectors ...string) string {
	return firstText(d.Root, selectors, max)
}

// Meta returns the content of a <meta> tag by name or property
func (d *Document) Meta(key string) string {
	for _, n := range queryAll(d.Root, "meta") {
		if strings.EqualFold(attr(n, "name"), key) || strings.EqualFold(attr(n, "property"), key) {
			if v := strings.TrimSpace(attr(n, "content")); v != "" {
				return v
			}
		}
	}
	return ""
}

// Resolve makes href absolute against the document URL
func (d *Document) Resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := d.URL.ResolveReference(ref)
	abs.Fragment = ""
	return abs.String()
}

func firstText(root *html.Node, selectors []string, max int) string {
	for _, sel := range selectors {
		for _, n := range queryAll(root, sel) {
			text := nodeText(n)
			if text == "" || (max > 0 && len(text) > max) {
				continue
			}
			return text
		}
	}
	return ""
}

func queryAll(root *html.Node, selector string) []*html.Node {
	var results []*html.Node
	seen := make(map[*html.Node]bool)

	for _, alt := range strings.Split(selector, ",") {
		parts := strings.Fields(alt)
		if len(parts) == 0 {
			continue
		}

		matches := matchDescendants(root, parseSimple(parts[0]), true)
		for _, part := range parts[1:] {
			sel := parseSimple(part)
			var next []*html.Node
			for _, parent := range matches {
				next = append(next, matchDescendants(parent, sel, false)...)
			}
			matches = next
		}

		for _, n := range matches {
			if !seen[n] {
				seen[n] = true
				results = append(results, n)
			}
		}
	}
	return results
}

func matchDescendants(root *html.Node, sel simpleSelector, includeRoot bool) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if sel.matches(n) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if includeRoot {
		walk(root)
	} else {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	return results
}

type attrCond struct {
	key string
	op  string // "", "=", "*=", "^=", "$="
	val string
}

type simpleSelector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrCond
}

func parseSimple(sel string) simpleSelector {
	var s simpleSelector
	for len(sel) > 0 {
		switch sel[0] {
		case '[':
			end := strings.IndexByte(sel, ']')
			if end < 0 {
				end = len(sel)
			}
			s.attrs = append(s.attrs, parseAttrCond(sel[1:end]))
			if end < len(sel) {
				sel = sel[end+1:]
			} else {
				sel = ""
			}
		case '.', '#':
			j := 1 + strings.IndexAny(sel[1:], ".#[")
			if j == 0 {
				j = len(sel)
			}
			if sel[0] == '.' {
				s.classes = append(s.classes, sel[1:j])
			} else {
				s.id = sel[1:j]
			}
			sel = sel[j:]
		default:
			j := strings.IndexAny(sel, ".#[")
			if j < 0 {
				j = len(sel)
			}
			s.tag = strings.ToLower(sel[:j])
			sel = sel[j:]
		}
	}
	return s
}

func parseAttrCond(expr string) attrCond {
	for _, op := range []string{"*=", "^=", "$=", "="} {
		if idx := strings.Index(expr, op); idx >= 0 {
			return attrCond{
				key: strings.TrimSpace(expr[:idx]),
				op:  op,
				val: strings.Trim(strings.TrimSpace(expr[idx+len(op):]), `"'`),
			}
		}
	}
	return attrCond{key: strings.TrimSpace(expr)}
}

func (s simpleSelector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && s.tag != "*" && n.Data != s.tag {
		return false
	}
	if s.id != "" && attr(n, "id") != s.id {
		return false
	}
	if len(s.classes) > 0 {
		have := strings.Fields(attr(n, "class"))
		for _, want := range s.classes {
			if !containsString(have, want) {
				return false
			}
		}
	}
	for _, c := range s.attrs {
		val, ok := lookupAttr(n, c.key)
		if !ok {
			return false
		}
		lv, lw := strings.ToLower(val), strings.ToLower(c.val)
		switch c.op {
		case "=":
			if val != c.val {
				return false
			}
		case "*=":
			if !strings.Contains(lv, lw) {
				return false
			}
		case "^=":
			if !strings.HasPrefix(lv, lw) {
				return false
			}
		case "$=":
			if !strings.HasSuffix(lv, lw) {
				return false
			}
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// nodeText collects visible text below n with whitespace collapsed
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Svg:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// renderNode serializes n back to HTML
func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
