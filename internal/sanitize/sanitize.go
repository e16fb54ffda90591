package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// Text strips HTML markup from s and returns the remaining plain text.
// Text inside script and style elements is dropped entirely, tags and
// comments are removed, entities are decoded, and runs of whitespace
// collapse to a single space.
//
// Design decision: We use the golang.org/x/net/html tokenizer rather than
// regex because agent output is effectively arbitrary web text, and the
// tokenizer handles malformed markup the same way browsers do.
func Text(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseWhitespace(s)
	}

	var b strings.Builder
	b.Grow(len(s))

	// Text tokens are written verbatim so inline markup ("Vague
	// <em>copy</em>.") never splits punctuation off a word. A separator is
	// only inserted where the markup itself implied one: a skipped invisible
	// element or a flow break between two runs of text.
	skipDepth := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tok := z.Next()
		switch tok {
		case html.ErrorToken:
			// io.EOF or malformed input; either way we keep what we have.
			return collapseWhitespace(b.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch {
			case isInvisibleElement(string(name)):
				if tok == html.StartTagToken {
					skipDepth++
				}
				b.WriteByte(' ')
			case breaksFlow(string(name)):
				b.WriteByte(' ')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch {
			case isInvisibleElement(string(name)):
				if skipDepth > 0 {
					skipDepth--
				}
			case breaksFlow(string(name)):
				b.WriteByte(' ')
			}

		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// Strings sanitizes each pointed-to string in place. Nil pointers are
// skipped.
func Strings(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = Text(*v)
		}
	}
}

// isInvisibleElement reports whether an element's text content is never
// user-visible prose.
func isInvisibleElement(name string) bool {
	switch name {
	case "script", "style", "noscript", "iframe":
		return true
	}
	return false
}

// breaksFlow reports whether an element starts or ends a line of text, so
// removing it must not glue the surrounding words together.
func breaksFlow(name string) bool {
	switch name {
	case "br", "p", "div", "li", "ul", "ol", "tr", "td", "th",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// collapseWhitespace trims and collapses all whitespace runs to one space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
