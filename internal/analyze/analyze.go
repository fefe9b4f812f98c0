// Package analyze walks a block tree, pairing lists with their items and
// matching ordinal markers, to decide which lists may be rewritten as
// ordered lists.
package analyze

import (
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/internal/logging"
	"github.com/jcorbin/olify/markers"
)

// TieBreak selects the majority marker type when frequencies tie.
type TieBreak int

// TieBreak values.
const (
	FirstSeen TieBreak = iota
	LastSeen
)

// Analyzer computes list structure and marker runs.
type Analyzer struct {
	Registry *markers.Registry
	TieBreak TieBreak
	Log      *log.Logger
}

// List describes one list subtree. Positions are valid only until the tree
// is next structurally edited; Node stays valid.
type List struct {
	Node        *blocktree.Node
	Open, Close int
	Items       []*Item

	// Run is the marker run over the list's items, nil if none matched.
	Run *Run

	Loose         bool
	ShouldConvert bool
}

// Ordered returns true if the list is currently an ordered list.
func (l *List) Ordered() bool { return l.Node.Kind == blocktree.OrderedListOpen }

// Item describes one list item.
type Item struct {
	Node        *blocktree.Node
	Open, Close int

	// Paragraph and ParagraphClose bound the item's first direct paragraph,
	// and Inline is its text node.
	Paragraph      *blocktree.Node
	ParagraphClose *blocktree.Node
	Inline         *blocktree.Node

	// First is the item's first direct child outside nested lists, if any.
	First *blocktree.Node

	Marker *markers.Marker
	Nested []*List

	// Leading counts direct paragraphs before the first nested list;
	// Paragraphs counts all direct paragraphs.
	Leading    int
	Paragraphs int

	// Blocks counts direct children that are neither paragraphs nor lists.
	Blocks int

	// FirstParagraphLoose is set when a blank line separates the first
	// paragraph from the first nested list.
	FirstParagraphLoose bool
}

// Tight returns true if the item holds at most one paragraph, no other
// non-list blocks, and no blank line before its first nested list.
func (it *Item) Tight() bool {
	return it.Paragraphs <= 1 && it.Blocks == 0 && !it.FirstParagraphLoose
}

// Run is the sequence of markers matched across a list's items.
type Run struct {
	// Markers holds each matched marker, in item order.
	Markers []markers.Marker

	// Ordinals holds the resolved number of each marker; repeats of an
	// identical marker count up from the first.
	Ordinals []int

	// Type is the majority marker type.
	Type string

	// Consistent is set when every item matched and all share one type.
	Consistent bool

	// AllLiteralOne is set when every marker was written as ordinal one.
	AllLiteralOne bool
}

// Analyze returns every outermost list, followed depth first by its nested
// lists. Lists at the top level, and lists inside description lists,
// blockquotes, or other non-list containers, are all outermost.
func (a *Analyzer) Analyze(tree *blocktree.Tree) []*List {
	lg := logging.OrDiscard(a.Log)
	idx := tree.Index()
	if idx.Unbalanced > 0 {
		lg.Debug("unbalanced block tree", "unclosed", idx.Unbalanced)
	}
	var lists []*List
	for i := 0; i < tree.Len(); i++ {
		if tree.Nodes[i].Kind.IsListOpen() {
			lists, _ = a.list(lg, tree, idx, i, lists)
			i = idx.Close(i)
		}
	}
	return lists
}

func (a *Analyzer) list(lg *log.Logger, tree *blocktree.Tree, idx blocktree.Index, open int, lists []*List) ([]*List, *List) {
	l := &List{
		Node:  tree.Nodes[open],
		Open:  open,
		Close: idx.Close(open),
	}
	lists = append(lists, l)

	for _, c := range tree.Children(idx, open) {
		if tree.Nodes[c].Kind != blocktree.ItemOpen {
			continue
		}
		it := &Item{Node: tree.Nodes[c], Open: c, Close: idx.Close(c)}
		for _, k := range tree.Children(idx, c) {
			n := tree.Nodes[k]
			if it.First == nil && !n.Kind.IsListOpen() {
				it.First = n
			}
			switch {
			case n.Kind.IsListOpen():
				var nested *List
				lists, nested = a.list(lg, tree, idx, k, lists)
				if para := it.Paragraph; len(it.Nested) == 0 && para != nil &&
					para.Lines.Valid() && n.Lines.Valid() &&
					n.Lines.Start > para.Lines.End {
					it.FirstParagraphLoose = true
				}
				it.Nested = append(it.Nested, nested)
			case n.Kind == blocktree.ParagraphOpen:
				it.Paragraphs++
				if len(it.Nested) == 0 {
					it.Leading++
				}
				if it.Paragraph == nil {
					it.Paragraph = n
					it.ParagraphClose = tree.Nodes[idx.Close(k)]
					if in := tree.At(k + 1); in != nil && in.Kind == blocktree.Inline {
						it.Inline = in
					}
				}
			default:
				it.Blocks++
			}
		}
		l.Items = append(l.Items, it)
	}

	if l.Ordered() && !l.Node.Has(blocktree.Literal) {
		a.ordinalMarkers(l)
	} else {
		a.matchMarkers(l)
	}
	l.Run = a.run(l.Items)
	l.Loose = loose(l)
	l.ShouldConvert = (!l.Ordered() || l.Node.Has(blocktree.Literal)) &&
		l.Run != nil && l.Run.Consistent

	if l.Run != nil && !l.ShouldConvert && !l.Ordered() {
		lg.Debug("list left unordered",
			"line", l.Node.Lines.Start+1,
			"items", len(l.Items),
			"matched", len(l.Run.Markers))
	}
	return lists, l
}

// matchMarkers reads markers out of item text, voting over all siblings.
func (a *Analyzer) matchMarkers(l *List) {
	var texts []string
	for _, it := range l.Items {
		if it.Inline != nil {
			texts = append(texts, it.Inline.Text)
		}
	}
	ctx := a.Registry.ContextType(texts)
	for _, it := range l.Items {
		if it.Inline == nil {
			continue
		}
		if m, ok := a.Registry.MatchIn(it.Inline.Text, ctx); ok {
			it.Marker = &m
		}
	}
}

// ordinalMarkers synthesizes decimal markers for a tokenizer-ordered list
// from its item numbers.
func (a *Analyzer) ordinalMarkers(l *List) {
	suffix := "."
	if d := l.Node.Delim; d != 0 {
		suffix = string(d)
	}
	prev := 0
	for _, it := range l.Items {
		n := it.Node.Ordinal
		if n == 0 {
			n = prev + 1
		}
		prev = n
		sym := strconv.Itoa(n)
		it.Marker = &markers.Marker{
			Type:   "decimal",
			Symbol: sym,
			Suffix: suffix,
			Number: n,
			Source: sym + suffix,
		}
	}
}

func (a *Analyzer) run(items []*Item) *Run {
	var (
		r      Run
		counts = make(map[string]int)
		order  []string
	)
	for _, it := range items {
		if it.Marker == nil {
			continue
		}
		m := *it.Marker
		r.Markers = append(r.Markers, m)
		if counts[m.Type] == 0 {
			order = append(order, m.Type)
		}
		counts[m.Type]++
	}
	if len(r.Markers) == 0 {
		return nil
	}
	r.Ordinals, r.AllLiteralOne = Sequence(r.Markers)

	best := 0
	for _, typ := range order {
		if n := counts[typ]; n > best || (n == best && a.TieBreak == LastSeen) {
			best = n
			r.Type = typ
		}
	}
	r.Consistent = len(r.Markers) == len(items) && len(order) == 1
	return &r
}

// Sequence resolves the ordinal of each marker in a run: a marker written
// identically to its predecessor counts up from it, any other takes its own
// number. Also reports whether every marker was literally written as one.
func Sequence(ms []markers.Marker) (ordinals []int, allOne bool) {
	ordinals = make([]int, len(ms))
	allOne = true
	for i, m := range ms {
		if i > 0 && ms[i-1].Source == m.Source && ms[i-1].Type == m.Type {
			ordinals[i] = ordinals[i-1] + 1
		} else {
			ordinals[i] = m.Number
		}
		allOne = allOne && m.Number == 1
	}
	return ordinals, allOne
}

// loose returns true if any item's first block outside nested lists is a
// visible paragraph; a lone tight item never makes its list loose.
func loose(l *List) bool {
	if len(l.Items) == 1 && l.Items[0].Tight() {
		return false
	}
	for _, it := range l.Items {
		if it.First != nil && it.First.Kind == blocktree.ParagraphOpen && !it.First.Hidden {
			return true
		}
	}
	return false
}
