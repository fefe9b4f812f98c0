package blocktree

import (
	"strings"

	"github.com/russross/blackfriday"
)

const bfExtensions = blackfriday.CommonExtensions | blackfriday.DefinitionLists

// FromBlackfriday tokenizes markdown source with blackfriday, returning the
// resulting block structure as a flat Tree.
//
// Blackfriday does not track source positions, so no line ranges are set, and
// it strips up to four columns of list continuation indentation before
// recording paragraph text. Ordered items are numbered sequentially.
func FromBlackfriday(src []byte) *Tree {
	md := blackfriday.New(blackfriday.WithExtensions(bfExtensions))
	doc := md.Parse(src)
	b := NewBuilder(0)
	for c := doc.FirstChild; c != nil; c = c.Next {
		bfBlock(b, c, false)
	}
	return b.Tree()
}

func bfChildren(b *Builder, n *blackfriday.Node, tight bool) {
	for c := n.FirstChild; c != nil; c = c.Next {
		bfBlock(b, c, tight)
	}
}

func bfBlock(b *Builder, n *blackfriday.Node, tight bool) {
	switch n.Type {
	case blackfriday.List:
		if n.ListFlags&blackfriday.ListTypeDefinition != 0 {
			b.Open(DescListOpen)
			for c := n.FirstChild; c != nil; c = c.Next {
				kind := DetailsOpen
				if c.ListFlags&blackfriday.ListTypeTerm != 0 {
					kind = TermOpen
				}
				b.Open(kind)
				bfChildren(b, c, n.Tight)
				b.Close()
			}
			b.Close()
			return
		}

		ordered := n.ListFlags&blackfriday.ListTypeOrdered != 0
		list := b.Open(BulletListOpen)
		list.Delim = n.BulletChar
		if ordered {
			list.Kind = OrderedListOpen
			list.Delim = n.Delimiter
		}
		i := 1
		for c := n.FirstChild; c != nil; c = c.Next {
			item := b.Open(ItemOpen)
			if ordered {
				item.Ordinal = i
			}
			bfChildren(b, c, n.Tight)
			b.Close()
			i++
		}
		b.Close()

	case blackfriday.Paragraph:
		inItem := n.Parent != nil && n.Parent.Type == blackfriday.Item
		b.Paragraph(bfInline(n), tight && inItem)

	case blackfriday.Heading:
		b.Leaf(Heading, bfInline(n)).Level = n.Level

	case blackfriday.CodeBlock:
		b.Leaf(CodeBlock, string(n.Literal))

	case blackfriday.HTMLBlock:
		b.Leaf(HTMLBlock, string(n.Literal))

	case blackfriday.BlockQuote:
		b.Open(BlockquoteOpen)
		bfChildren(b, n, false)
		b.Close()

	case blackfriday.HorizontalRule:
		b.Leaf(Rule, "")

	default:
		bfChildren(b, n, tight)
	}
}

// bfInline reassembles the markdown source text of an inline container.
func bfInline(n *blackfriday.Node) string {
	var sb strings.Builder
	n.Walk(func(c *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if c == n {
			return blackfriday.GoToNext
		}
		switch c.Type {
		case blackfriday.Text, blackfriday.HTMLSpan:
			sb.Write(c.Literal)
		case blackfriday.Code:
			sb.WriteString("`")
			sb.Write(c.Literal)
			sb.WriteString("`")
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			sb.WriteByte('\n')
		case blackfriday.Emph:
			sb.WriteString("*")
		case blackfriday.Strong:
			sb.WriteString("**")
		case blackfriday.Del:
			sb.WriteString("~~")
		case blackfriday.Link, blackfriday.Image:
			switch {
			case !entering:
				sb.WriteString("](")
				sb.Write(c.Destination)
				sb.WriteString(")")
			case c.Type == blackfriday.Image:
				sb.WriteString("![")
			default:
				sb.WriteString("[")
			}
		}
		return blackfriday.GoToNext
	})
	return strings.TrimRight(sb.String(), "\n")
}
