// Package htmltext turns HTML documents and email bodies into plain text
// suitable for an LLM prompt.
package htmltext

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Document is the readable form of an HTML input
type Document struct {
	Title string
	Text  string
}

// Extract runs readability over raw HTML. Fragments readability cannot score
// (short email bodies, bare snippets) fall back to the concatenated text nodes.
func Extract(raw []byte, name string) (*Document, error) {
	pageURL, err := url.Parse("http://localhost/" + url.PathEscape(name))
	if err != nil {
		return nil, fmt.Errorf("invalid document name %q: %w", name, err)
	}

	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err == nil {
		if text := Normalize(article.TextContent); text != "" {
			return &Document{Title: strings.TrimSpace(article.Title), Text: text}, nil
		}
	}

	text, ferr := TextNodes(bytes.NewReader(raw))
	if ferr != nil {
		if err != nil {
			return nil, fmt.Errorf("readability extraction failed: %w", err)
		}
		return nil, ferr
	}
	return &Document{Text: text}, nil
}

// TextNodes returns the visible text of an HTML tree, skipping script and style
func TextNodes(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "head") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte('\n')
			}
		}
	}
	walk(root)
	return Normalize(b.String()), nil
}

// Normalize collapses runs of blank space while keeping line breaks
func Normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
