package blocktree

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var goldmarkParser = goldmark.New(
	goldmark.WithExtensions(extension.DefinitionList),
).Parser()

// FromGoldmark tokenizes markdown source with goldmark, returning the
// resulting block structure as a flat Tree.
//
// Paragraph continuation lines keep their indentation relative to the
// paragraph's first line, so that literal list lines may be recovered later.
// Tight list paragraphs are marked Hidden.
func FromGoldmark(src []byte) *Tree {
	doc := goldmarkParser.Parse(text.NewReader(src))
	gc := gmConverter{
		src:   src,
		lines: lineStarts(src),
		b:     NewBuilder(0),
	}
	gc.children(doc)
	tree := gc.b.Tree()
	tree.FillLines()
	return tree
}

type gmConverter struct {
	src   []byte
	lines []int
	b     *Builder
}

func (gc *gmConverter) children(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		gc.block(c)
	}
}

func (gc *gmConverter) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.List:
		kind := BulletListOpen
		if n.IsOrdered() {
			kind = OrderedListOpen
		}
		gc.b.Open(kind).Delim = n.Marker
		i := 0
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			item := gc.b.Open(ItemOpen)
			if n.IsOrdered() {
				item.Ordinal = gc.ordinal(c, n.Start+i)
			}
			gc.children(c)
			gc.b.Close()
			i++
		}
		gc.b.Close()

	case *ast.Paragraph:
		gc.paragraph(n, false)

	case *ast.TextBlock:
		gc.paragraph(n, true)

	case *ast.Heading:
		h := gc.b.Leaf(Heading, gc.lineText(n))
		h.Level = n.Level
		h.Lines = gc.lineRange(n)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		c := gc.b.Leaf(CodeBlock, string(gc.raw(n)))
		c.Lines = gc.lineRange(n)

	case *ast.HTMLBlock:
		raw := gc.raw(n)
		if n.HasClosure() {
			raw = append(raw, n.ClosureLine.Value(gc.src)...)
		}
		h := gc.b.Leaf(HTMLBlock, string(raw))
		h.Lines = gc.lineRange(n)

	case *ast.Blockquote:
		gc.b.Open(BlockquoteOpen)
		gc.children(n)
		gc.b.Close()

	case *ast.ThematicBreak:
		gc.b.Leaf(Rule, "")

	case *extast.DefinitionList:
		gc.b.Open(DescListOpen)
		gc.children(n)
		gc.b.Close()

	case *extast.DefinitionTerm:
		term := gc.b.Open(TermOpen)
		term.Lines = gc.lineRange(n)
		gc.b.Leaf(Inline, gc.lineText(n)).Lines = term.Lines
		gc.b.Close()

	case *extast.DefinitionDescription:
		gc.b.Open(DetailsOpen)
		gc.children(n)
		gc.b.Close()

	default:
		gc.children(n)
	}
}

func (gc *gmConverter) paragraph(n ast.Node, hidden bool) {
	lines := gc.lineRange(n)
	open := gc.b.Open(ParagraphOpen)
	open.Hidden = hidden
	open.Lines = lines
	gc.b.Leaf(Inline, gc.lineText(n)).Lines = lines
	gc.b.Close().Hidden = hidden
}

// lineText joins a block's source lines, trimming each, but re-indenting
// continuation lines by how far they sit past the first line's column.
func (gc *gmConverter) lineText(n ast.Node) string {
	segs := n.Lines()
	var sb strings.Builder
	base := 0
	for i := 0; i < segs.Len(); i++ {
		col, body := gc.column(segs.At(i))
		if i == 0 {
			base = col
		} else {
			sb.WriteByte('\n')
			if rel := col - base; rel > 0 {
				sb.WriteString(strings.Repeat(" ", rel))
			}
		}
		sb.Write(body)
	}
	return sb.String()
}

// column returns the visual column at which a segment's content begins, along
// with the content stripped of surrounding whitespace.
func (gc *gmConverter) column(seg text.Segment) (int, []byte) {
	start := gc.lines[gc.lineOf(seg.Start)]
	col := visualWidth(gc.src[start:seg.Start], 0)
	raw := gc.src[seg.Start:seg.Stop]
	body := bytes.TrimLeft(raw, " \t")
	col = visualWidth(raw[:len(raw)-len(body)], col)
	return col, bytes.TrimRight(body, " \t\r\n")
}

func (gc *gmConverter) raw(n ast.Node) []byte {
	var buf []byte
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf = append(buf, seg.Value(gc.src)...)
	}
	return buf
}

func (gc *gmConverter) lineRange(n ast.Node) LineRange {
	segs := n.Lines()
	if segs == nil || segs.Len() == 0 {
		return LineRange{}
	}
	return LineRange{
		Start: gc.lineOf(segs.At(0).Start),
		End:   gc.lineOf(segs.At(segs.Len()-1).Start) + 1,
	}
}

func (gc *gmConverter) lineOf(offset int) int {
	return sort.Search(len(gc.lines), func(i int) bool {
		return gc.lines[i] > offset
	}) - 1
}

// ordinal reads an ordered item's number back out of the source text in
// front of its first content line; goldmark only records the list start.
func (gc *gmConverter) ordinal(item ast.Node, fallback int) int {
	seg, nested, ok := firstSegment(item)
	if !ok {
		return fallback
	}
	prefix := gc.src[gc.lines[gc.lineOf(seg.Start)]:seg.Start]
	runs := ordinalRuns(prefix)
	if i := len(runs) - 1 - nested; i >= 0 {
		return runs[i]
	}
	return fallback
}

// firstSegment finds the first source line under n, counting how many ordered
// lists it descended through to get there.
func firstSegment(n ast.Node) (seg text.Segment, nested int, ok bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		if lines := c.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0), 0, true
		}
		seg, nested, ok = firstSegment(c)
		if list, isList := c.(*ast.List); ok && isList && list.IsOrdered() {
			nested++
		}
		return seg, nested, ok
	}
	return seg, 0, false
}

// ordinalRuns returns every ordered list marker number found in a line
// prefix, in order.
func ordinalRuns(prefix []byte) (runs []int) {
	for i := 0; i < len(prefix); {
		j := i
		for j < len(prefix) && '0' <= prefix[j] && prefix[j] <= '9' {
			j++
		}
		if j > i && j-i <= 9 && j < len(prefix) && (prefix[j] == '.' || prefix[j] == ')') {
			if n, err := strconv.Atoi(string(prefix[i:j])); err == nil {
				runs = append(runs, n)
			}
		}
		if j == i {
			j++
		}
		i = j
	}
	return runs
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// visualWidth advances col past b, expanding tabs to stops of 4 and counting
// each rune once.
func visualWidth(b []byte, col int) int {
	for _, c := range b {
		switch {
		case c == '\t':
			col += 4 - col%4
		case c&0xC0 == 0x80:
			// utf-8 continuation byte
		default:
			col++
		}
	}
	return col
}
