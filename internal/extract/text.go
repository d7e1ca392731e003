package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Page is the readable content of a fetched HTML document
type Page struct {
	Title string
	Text  string
}

// VisibleText parses HTML and returns its title and visible text.
// Script, style and embedded content are skipped; paragraph-level
// elements are separated by newlines so words never glue together.
func VisibleText(htmlContent string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	page := &Page{}
	var out textWriter

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "svg":
				return
			case "title":
				if page.Title == "" && n.FirstChild != nil {
					page.Title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				out.write(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			out.lineBreak()
		}
	}

	walk(doc)
	page.Text = out.b.String()
	return page, nil
}

// isBlock reports whether the element ends a run of text
func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6",
		"article", "section", "blockquote", "tr", "pre":
		return true
	}
	return false
}

// textWriter joins text runs with a space, or a newline after a block ends
type textWriter struct {
	b         strings.Builder
	needBreak bool
}

func (w *textWriter) write(text string) {
	if w.b.Len() > 0 {
		if w.needBreak {
			w.b.WriteByte('\n')
		} else {
			w.b.WriteByte(' ')
		}
	}
	w.b.WriteString(text)
	w.needBreak = false
}

func (w *textWriter) lineBreak() {
	if w.b.Len() > 0 {
		w.needBreak = true
	}
}
