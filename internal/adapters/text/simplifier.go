// Package text provides the plain-text rendering used for calendar
// export: event descriptions may contain HTML markup, calendar clients
// want plain text.
package text

import (
	"strings"

	"golang.org/x/net/html"

	"eventer/internal/domain"
)

type htmlSimplifier struct{}

// NewHTMLSimplifier returns a TextSimplifier that strips HTML markup,
// keeping only text content with whitespace collapsed. Input without
// markup passes through unchanged apart from whitespace normalization.
func NewHTMLSimplifier() domain.TextSimplifier {
	return htmlSimplifier{}
}

// blockTags start a new line in the plain-text rendering.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "ul": {}, "ol": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"blockquote": {}, "tr": {},
}

// skipTags contribute no text at all.
var skipTags = map[string]struct{}{
	"script": {}, "style": {},
}

func (htmlSimplifier) Simplify(s string) string {
	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return collapse(b.String())
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tok.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tok.TagName()
			tag := string(name)
			if _, ok := skipTags[tag]; ok {
				skipDepth++
				b.WriteByte('\n')
				continue
			}
			if _, ok := blockTags[tag]; ok {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			tag := string(name)
			if _, ok := skipTags[tag]; ok && skipDepth > 0 {
				skipDepth--
				continue
			}
			if _, ok := blockTags[tag]; ok {
				b.WriteByte('\n')
			}
		}
	}
}

// collapse trims the text and squeezes runs of blank space: spaces and
// tabs within a line become one space, blank lines disappear.
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
