// Package extract pulls analyzable text out of HTML documents.
package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// VisibleText parses HTML and returns the text a reader would see, with
// whitespace collapsed. Script, style and other non-rendered subtrees are
// skipped.
func VisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var sb strings.Builder
	visibleText(doc, &sb)
	return strings.Join(strings.Fields(sb.String()), " "), nil
}

func visibleText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "iframe":
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(c, sb)
	}
}
