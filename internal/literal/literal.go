// Package literal recovers nested lists that were written only with
// indentation and marker text, which the tokenizer left inside item
// paragraphs as plain continuation lines.
package literal

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/internal/logging"
	"github.com/jcorbin/olify/markers"
)

type lineSpan = blocktree.LineRange

// Recoverer splices literal lists into item paragraphs.
type Recoverer struct {
	Registry *markers.Registry
	Log      *log.Logger
}

// Recover rewrites every item paragraph holding literal list lines, replacing
// those lines with synthesized ordered lists flagged blocktree.Literal.
// Returns the number of lists synthesized.
func (r *Recoverer) Recover(tree *blocktree.Tree) (n int) {
	var stack []blocktree.Kind
	push := func(k blocktree.Kind) { stack = append(stack, k) }
	inItem := func() bool { return len(stack) > 0 && stack[len(stack)-1] == blocktree.ItemOpen }

	for i := 0; i < tree.Len(); i++ {
		node := tree.Nodes[i]
		switch {
		case node.Kind.IsClose():
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		case node.Kind != blocktree.ParagraphOpen:
			if node.Kind.IsOpen() {
				push(node.Kind)
			}
			continue
		}

		in, close := tree.At(i+1), tree.At(i+2)
		if !inItem() || in == nil || in.Kind != blocktree.Inline ||
			close == nil || close.Kind != blocktree.ParagraphClose {
			push(node.Kind)
			continue
		}
		repl, lists := r.rewrite(node, in, close)
		if lists == 0 {
			push(node.Kind)
			continue
		}
		tree.Splice(i, i+3, repl...)
		i += len(repl) - 1
		n += lists
	}

	if n > 0 {
		merged := mergeAdjacent(tree)
		tree.FillLines()
		logging.OrDiscard(r.Log).Debug("recovered literal lists", "lists", n, "merged", merged)
	}
	return n
}

type litLine struct {
	indent int
	marker markers.Marker
	text   string
}

type litItem struct {
	line     int
	text     string
	ordinal  int
	children []*litList
}

type litList struct {
	items []*litItem
	loose bool
}

type frame struct {
	indent int
	list   *litList
}

type segment struct {
	start, end int
	lists      []*litList
}

// literalLine recognizes an indented line that starts with a marker followed
// by content.
func (r *Recoverer) literalLine(line string) (litLine, bool) {
	indent, rest := trimIndent(line)
	rest = strings.TrimLeft(rest, "　")
	if indent < 1 || rest == "" {
		return litLine{}, false
	}
	m, ok := r.Registry.Match(rest)
	if !ok || strings.TrimSpace(rest[m.Len():]) == "" {
		return litLine{}, false
	}
	return litLine{indent: indent, marker: m, text: strings.TrimRight(rest, " \t")}, true
}

// rewrite splits a paragraph into alternating text and literal list
// segments, returning replacement nodes and the number of lists built.
func (r *Recoverer) rewrite(open, in, close *blocktree.Node) ([]*blocktree.Node, int) {
	lines := strings.Split(in.Text, "\n")
	var segs []segment
	for i := 0; i < len(lines); {
		if _, ok := r.literalLine(lines[i]); !ok {
			i++
			continue
		}
		lists, next := r.parseRun(lines, i)
		segs = append(segs, segment{start: i, end: next, lists: lists})
		i = next
	}
	if len(segs) == 0 {
		return nil, 0
	}

	b := blocktree.NewBuilder(open.Depth)
	count := 0
	reused := false
	text := func(start, end int) {
		for end > start && isBlank(lines[end-1]) {
			end--
		}
		for start < end && isBlank(lines[start]) {
			start++
		}
		if start >= end {
			return
		}
		body := strings.Join(lines[start:end], "\n")
		lr := lineRange(open.Lines, start, end)
		if !reused {
			reused = true
			in.Text = body
			open.Lines, in.Lines, close.Lines = lr, lr, lr
			b.Append(open, in, close)
			return
		}
		p := b.Open(blocktree.ParagraphOpen)
		p.Hidden, p.Lines, p.Attrs = open.Hidden, lr, nil
		b.Leaf(blocktree.Inline, body).Lines = lr
		b.Close().Hidden = open.Hidden
	}

	prev := 0
	for _, seg := range segs {
		text(prev, seg.start)
		for _, l := range seg.lists {
			emit(b, l, open.Lines)
			count++
		}
		prev = seg.end
	}
	text(prev, len(lines))
	return b.Nodes(), count
}

// parseRun groups contiguous literal lines starting at lines[start] into
// nested lists, using an explicit stack of open list frames keyed by
// indentation. Returns the root lists and the first line not consumed.
func (r *Recoverer) parseRun(lines []string, start int) ([]*litList, int) {
	var (
		roots []*litList
		stack []frame
		blank bool
		base  = -1
		i     = start
	)
	for i < len(lines) {
		if isBlank(lines[i]) {
			j := i
			for j < len(lines) && isBlank(lines[j]) {
				j++
			}
			if j < len(lines) {
				if ll, ok := r.literalLine(lines[j]); ok && ll.indent >= base {
					blank = true
					i = j
					continue
				}
			}
			break
		}

		ll, ok := r.literalLine(lines[i])
		if !ok || (base >= 0 && ll.indent < base) {
			break
		}
		if base < 0 {
			base = ll.indent
		}

		for len(stack) > 1 && stack[len(stack)-1].indent > ll.indent {
			stack = stack[:len(stack)-1]
		}
		switch top := len(stack) - 1; {
		case top < 0:
			l := &litList{}
			roots = append(roots, l)
			stack = append(stack, frame{indent: ll.indent, list: l})
		case stack[top].indent < ll.indent:
			parent := stack[top].list.items[len(stack[top].list.items)-1]
			l := &litList{}
			parent.children = append(parent.children, l)
			stack = append(stack, frame{indent: ll.indent, list: l})
		}

		cur := stack[len(stack)-1].list
		if blank {
			cur.loose = true
			blank = false
		}
		cur.items = append(cur.items, &litItem{
			line:    i,
			text:    ll.text,
			ordinal: ll.marker.Number,
		})
		i++
	}
	return roots, i
}

// emit appends a synthesized ordered list subtree. Item text keeps its
// marker, so that analysis can type and strip it like any other list.
func emit(b *blocktree.Builder, l *litList, para lineSpan) {
	b.Open(blocktree.OrderedListOpen).Flags = blocktree.Literal
	for _, it := range l.items {
		b.Open(blocktree.ItemOpen).Ordinal = it.ordinal
		lr := lineRange(para, it.line, it.line+1)
		p := b.Open(blocktree.ParagraphOpen)
		p.Hidden, p.Lines = !l.loose, lr
		b.Leaf(blocktree.Inline, it.text).Lines = lr
		b.Close().Hidden = !l.loose
		for _, child := range it.children {
			emit(b, child, para)
		}
		b.Close()
	}
	b.Close()
}
