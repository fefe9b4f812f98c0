package convert

import "github.com/jcorbin/olify/blocktree"

// spans prepends a marker span to the first text of every item in decorated
// lists that have no native rendering, or in all decorated lists when
// AlwaysSpan is set. Returns the number of spans added.
func (c *Converter) spans(tree *blocktree.Tree) (n int) {
	class := c.Options.SpanClass
	if class == "" {
		class = DefaultSpanClass
	}
	pos := make(map[*blocktree.Node]int, len(c.decorated))
	for i, node := range tree.Nodes {
		if _, decorated := c.native[node]; decorated {
			pos[node] = i
		}
	}
	idx := tree.Index()
	for _, list := range c.decorated {
		at, ok := pos[list]
		run := c.runs[list]
		if !ok || run == nil {
			continue
		}
		if c.native[list] && !c.Options.AlwaysSpan {
			continue
		}
		typ, ok := c.Registry.Type(run.Type)
		if !ok {
			continue
		}
		for i, it := range itemsOf(tree, idx, at) {
			if i >= len(run.Markers) {
				break
			}
			inline := firstInline(tree, it)
			if inline == nil {
				continue
			}
			m := run.Markers[i]
			sym, ok := typ.Symbol(run.Ordinals[i])
			if !ok {
				sym = m.Symbol
			}
			text := m.Prefix + sym
			if c.Options.AlwaysSpan {
				text += m.Suffix
			}
			inline.Spans = append([]blocktree.Span{{Class: class, Text: text}}, inline.Spans...)
			n++
		}
	}
	return n
}

// firstInline returns the text node of an item's leading paragraph.
func firstInline(tree *blocktree.Tree, item int) *blocktree.Node {
	para, in := tree.At(item+1), tree.At(item+2)
	if para == nil || in == nil || para.Kind != blocktree.ParagraphOpen || in.Kind != blocktree.Inline {
		return nil
	}
	return in
}
