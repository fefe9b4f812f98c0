// Package render serializes block trees to HTML in the manner of
// markdown-it: tight list paragraphs render without their <p> wrapper, and
// attributes print in sorted order.
//
// Inline text is escaped but not otherwise interpreted; inline markup such as
// emphasis or links passes through as written.
package render

import (
	"html"
	"io"

	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/internal/textio"
)

var tags = map[blocktree.Kind]string{
	blocktree.BulletListOpen:  "ul",
	blocktree.OrderedListOpen: "ol",
	blocktree.ItemOpen:        "li",
	blocktree.ParagraphOpen:   "p",
	blocktree.BlockquoteOpen:  "blockquote",
	blocktree.DescListOpen:    "dl",
	blocktree.TermOpen:        "dt",
	blocktree.DetailsOpen:     "dd",
}

// HTML writes tree to w, returning the first write error.
func HTML(w io.Writer, tree *blocktree.Tree) error {
	ew, ok := w.(*textio.ErrWriter)
	if !ok {
		ew = &textio.ErrWriter{Writer: w}
	}
	for i, n := range tree.Nodes {
		next := tree.At(i + 1)
		switch {
		case n.Kind == blocktree.ParagraphOpen && n.Hidden:
			// tight paragraphs render bare

		case n.Kind == blocktree.ParagraphClose && n.Hidden:
			if next != nil && next.Kind != blocktree.ItemClose && next.Kind != blocktree.DetailsClose {
				ew.WriteString("\n")
			}

		case n.Kind == blocktree.ParagraphClose:
			ew.WriteString("</p>\n")

		case n.Kind == blocktree.ItemOpen, n.Kind == blocktree.TermOpen, n.Kind == blocktree.ParagraphOpen:
			openTag(ew, tags[n.Kind], n.Attrs)
			if n.Kind == blocktree.ItemOpen && !(next != nil && next.Kind == blocktree.ParagraphOpen && next.Hidden) {
				ew.WriteString("\n")
			}

		case n.Kind.IsOpen():
			openTag(ew, tags[n.Kind], n.Attrs)
			ew.WriteString("\n")

		case n.Kind.IsClose():
			ew.Printf("</%s>\n", tags[n.Kind.Open()])

		case n.Kind == blocktree.Inline:
			for _, span := range n.Spans {
				ew.Printf(`<span class="%s">%s</span> `,
					html.EscapeString(span.Class), html.EscapeString(span.Text))
			}
			ew.WriteString(html.EscapeString(n.Text))

		case n.Kind == blocktree.Heading:
			ew.Printf("<h%d>%s</h%d>\n", n.Level, html.EscapeString(n.Text), n.Level)

		case n.Kind == blocktree.CodeBlock:
			ew.Printf("<pre><code>%s</code></pre>\n", html.EscapeString(n.Text))

		case n.Kind == blocktree.HTMLBlock:
			ew.WriteString(n.Text)

		case n.Kind == blocktree.Rule:
			ew.WriteString("<hr>\n")
		}
	}
	return ew.Err
}

func openTag(ew *textio.ErrWriter, tag string, attrs blocktree.Attrs) {
	ew.WriteString("<" + tag)
	for _, key := range attrs.Keys() {
		ew.Printf(` %s="%s"`, key, html.EscapeString(attrs[key]))
	}
	ew.WriteString(">")
}
