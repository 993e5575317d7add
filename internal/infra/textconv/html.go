package textconv

import (
	"regexp"
	"strings"

	"telefication/internal/domain/ports/adapter"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ adapter.TextConverter = (*Converter)(nil)

var (
	spaceRun   = regexp.MustCompile(`[ \t\r\n\f]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	lineSpaces = regexp.MustCompile(`[ \t]+\n`)

	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// Converter renders HTML into plain text suitable for a Telegram message in
// html parse mode: structure becomes line breaks, bold and italic survive as
// <b> and <i>, and everything else is flattened.
type Converter struct{}

func New() *Converter { return &Converter{} }

func (c *Converter) ToText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors; fall back to tag stripping
		return strings.TrimSpace(c.StripTags(markup))
	}
	w := &textWriter{}
	w.walk(doc)
	return w.String()
}

// StripTags removes every tag whose name is not in allowed, keeping text and
// the original spelling of allowed tags.
func (c *Converter) StripTags(markup string, allowed ...string) string {
	if !strings.Contains(markup, "<") {
		return markup
	}
	keep := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		keep[strings.ToLower(a)] = struct{}{}
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			// TagName lowercases the token buffer in place, so Raw must be
			// copied first.
			raw := string(z.Raw())
			name, _ := z.TagName()
			if _, ok := keep[string(name)]; ok {
				b.WriteString(raw)
			}
		}
	}
}

type textWriter struct {
	b   strings.Builder
	pre int
}

func (w *textWriter) String() string {
	out := lineSpaces.ReplaceAllString(w.b.String(), "\n")
	out = blankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

func (w *textWriter) newline() {
	s := w.b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		w.b.WriteString("\n")
	}
}

func (w *textWriter) paragraph() {
	w.newline()
	if s := w.b.String(); s != "" && !strings.HasSuffix(s, "\n\n") {
		w.b.WriteString("\n")
	}
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		w.element(n)
		return
	}
	w.children(n)
}

func (w *textWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *textWriter) text(s string) {
	if w.pre == 0 {
		s = spaceRun.ReplaceAllString(s, " ")
		cur := w.b.String()
		if strings.HasPrefix(s, " ") && (cur == "" || strings.HasSuffix(cur, " ") || strings.HasSuffix(cur, "\n")) {
			s = s[1:]
		}
	}
	w.b.WriteString(textEscaper.Replace(s))
}

func (w *textWriter) element(n *html.Node) {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Noscript:
		return
	case atom.Br:
		w.b.WriteString("\n")
	case atom.Hr:
		w.paragraph()
		w.b.WriteString("-----")
		w.paragraph()
	case atom.B, atom.Strong:
		w.wrap(n, "<b>", "</b>")
	case atom.I, atom.Em:
		w.wrap(n, "<i>", "</i>")
	case atom.A:
		w.children(n)
		if href := attr(n, "href"); href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(href, "mailto:") {
			if textOf(n) != href {
				w.b.WriteString(" (" + textEscaper.Replace(href) + ")")
			}
		}
	case atom.Li:
		w.newline()
		w.b.WriteString("- ")
		w.children(n)
		w.newline()
	case atom.Pre:
		w.paragraph()
		w.pre++
		w.children(n)
		w.pre--
		w.paragraph()
	case atom.Tr:
		w.newline()
		w.children(n)
		w.newline()
	case atom.Td, atom.Th:
		w.children(n)
		w.b.WriteString(" ")
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Table, atom.Blockquote, atom.Section, atom.Article,
		atom.Header, atom.Footer:
		w.paragraph()
		w.children(n)
		w.paragraph()
	default:
		w.children(n)
	}
}

func (w *textWriter) wrap(n *html.Node, open, close string) {
	if strings.TrimSpace(textOf(n)) == "" {
		w.children(n)
		return
	}
	w.b.WriteString(open)
	w.children(n)
	w.b.WriteString(close)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.TrimSpace(b.String())
}
