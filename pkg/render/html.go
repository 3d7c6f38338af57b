package render

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/frame"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t\r\n]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	htmlPolicy = bluemonday.UGCPolicy()
)

// HTML renders sanitized HTML as styled text: headings, paragraphs, lists,
// links and preformatted blocks.
type HTML struct {
	env *Env
}

// Render implements Renderer
func (r *HTML) Render(h frame.Header, data []byte, sink Sink) error {
	doc, err := html.Parse(bytes.NewReader(htmlPolicy.SanitizeBytes(data)))
	if err != nil {
		return errors.Wrap(err, errors.ErrRender, "cannot parse HTML")
	}

	w := &htmlWriter{env: r.env}
	w.walk(doc)

	text := blankLines.ReplaceAllString(w.b.String(), "\n\n")
	sink.Insert(h, strings.Trim(text, "\n"))
	return nil
}

type htmlWriter struct {
	env   *Env
	b     strings.Builder
	pre   int
	lists []int
}

func (w *htmlWriter) block() {
	s := w.b.String()
	if s != "" && !strings.HasSuffix(s, "\n\n") {
		if strings.HasSuffix(s, "\n") {
			w.b.WriteString("\n")
		} else {
			w.b.WriteString("\n\n")
		}
	}
}

func (w *htmlWriter) newline() {
	if s := w.b.String(); s != "" && !strings.HasSuffix(s, "\n") {
		w.b.WriteString("\n")
	}
}

// inner renders the children of n into a separate buffer
func (w *htmlWriter) inner(n *html.Node) string {
	sub := &htmlWriter{env: w.env, pre: w.pre, lists: w.lists}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sub.walk(c)
	}
	return sub.b.String()
}

func (w *htmlWriter) walk(n *html.Node) {
	theme := w.env.theme()

	switch n.Type {
	case html.TextNode:
		text := n.Data
		if w.pre == 0 {
			text = spaceRun.ReplaceAllString(text, " ")
			if strings.HasSuffix(w.b.String(), "\n") || w.b.Len() == 0 {
				text = strings.TrimLeft(text, " ")
			}
		}
		w.b.WriteString(text)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		w.block()
		w.b.WriteString(theme.Render("Heading", strings.TrimSpace(w.inner(n))))
		w.block()
	case atom.P, atom.Div, atom.Blockquote, atom.Table:
		w.block()
		w.children(n)
		w.block()
	case atom.Br:
		w.b.WriteString("\n")
	case atom.Tr:
		w.newline()
		w.children(n)
	case atom.Td, atom.Th:
		w.children(n)
		w.b.WriteString("\t")
	case atom.Ul, atom.Ol:
		w.block()
		w.lists = append(w.lists, 0)
		if n.DataAtom == atom.Ul {
			w.lists[len(w.lists)-1] = -1
		}
		w.children(n)
		w.lists = w.lists[:len(w.lists)-1]
		w.block()
	case atom.Li:
		w.newline()
		w.b.WriteString(strings.Repeat("  ", max(len(w.lists)-1, 0)))
		if depth := len(w.lists); depth > 0 && w.lists[depth-1] >= 0 {
			w.lists[depth-1]++
			w.b.WriteString(strconv.Itoa(w.lists[depth-1]) + ". ")
		} else {
			w.b.WriteString("• ")
		}
		w.children(n)
	case atom.A:
		text := strings.TrimSpace(w.inner(n))
		href := attr(n, "href")
		switch {
		case href == "" || href == text:
			w.b.WriteString(theme.Render("Link", text))
		case text == "":
			w.b.WriteString(theme.Render("Link", href))
		default:
			w.b.WriteString(text + " " + theme.Render("Link", "<"+href+">"))
		}
	case atom.Pre:
		w.block()
		w.pre++
		w.b.WriteString(theme.Render("Code", strings.Trim(w.inner(n), "\n")))
		w.pre--
		w.block()
	case atom.Code:
		if w.pre > 0 {
			w.children(n)
		} else {
			w.b.WriteString(theme.Render("Code", w.inner(n)))
		}
	case atom.B, atom.Strong:
		w.b.WriteString(theme.Render("Label", w.inner(n)))
	case atom.Img:
		if alt := attr(n, "alt"); alt != "" {
			w.b.WriteString(theme.Render("Muted", "["+alt+"]"))
		}
	case atom.Script, atom.Style, atom.Head:
	default:
		w.children(n)
	}
}

func (w *htmlWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
