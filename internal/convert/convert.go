// Package convert rewrites analyzed unordered lists into ordered lists,
// flattens wrapper lists, and decorates the results with numbering
// attributes and marker spans.
package convert

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/internal/analyze"
	"github.com/jcorbin/olify/internal/logging"
	"github.com/jcorbin/olify/markers"
)

// Attribute names set on converted nodes.
const (
	AttrStart  = "start"
	AttrValue  = "value"
	AttrType   = "type"
	AttrClass  = "class"
	AttrRole   = "role"
	AttrPrefix = "data-marker-prefix"
	AttrSuffix = "data-marker-suffix"
)

// DefaultSpanClass is the class given to marker spans when none is
// configured.
const DefaultSpanClass = "li-num"

// Options control optional conversion behaviors.
type Options struct {
	Flatten      bool
	AlwaysSpan   bool
	SuppressRole bool
	SpanClass    string
	OmitMetadata bool
}

// Result counts what a Convert call changed.
type Result struct {
	Converted int
	Flattened int
	Demoted   int
	Spans     int
}

// Converter applies analysis results to a tree.
type Converter struct {
	Registry *markers.Registry
	Options  Options
	Log      *log.Logger

	// runs maps ordered list nodes to their marker runs
	runs map[*blocktree.Node]*analyze.Run

	// decorated lists, in decoration order, with whether each has a native
	// rendering
	decorated []*blocktree.Node
	native    map[*blocktree.Node]bool
}

// Convert rewrites every list that analysis marked convertible, then
// flattens wrapper lists if enabled, then adds marker spans. The lists must
// have been computed from tree with no structural edits since.
func (c *Converter) Convert(tree *blocktree.Tree, lists []*analyze.List) (res Result) {
	lg := logging.OrDiscard(c.Log)
	c.runs = make(map[*blocktree.Node]*analyze.Run)
	c.native = make(map[*blocktree.Node]bool)
	c.decorated = nil

	for _, l := range lists {
		if l.Run != nil && l.Run.Consistent {
			c.runs[l.Node] = l.Run
		}
		switch {
		case l.ShouldConvert:
			c.convert(tree, l)
			res.Converted++
		case l.Node.Has(blocktree.Literal):
			c.demote(tree, l)
			res.Demoted++
			lg.Debug("literal list left unordered", "line", l.Node.Lines.Start+1)
		}
	}

	if c.Options.Flatten {
		res.Flattened = c.flatten(tree)
	}
	c.propagateLoose(tree)
	res.Spans = c.spans(tree)
	return res
}

func (c *Converter) convert(tree *blocktree.Tree, l *analyze.List) {
	close := tree.Nodes[l.Close]
	l.Node.Kind = blocktree.OrderedListOpen
	l.Node.Flags = l.Node.Flags&^blocktree.Literal | blocktree.Converted
	if close.Kind.IsListClose() {
		close.Kind = blocktree.OrderedListClose
		close.Flags = l.Node.Flags
	}

	items := make([]*blocktree.Node, len(l.Items))
	for i, it := range l.Items {
		items[i] = it.Node
		it.Node.Ordinal = l.Run.Ordinals[i]
		stripMarker(it.Inline, l.Run.Markers[i])
		if !l.Loose {
			setHidden(it.Paragraph, it.ParagraphClose, true)
		}
		if it.FirstParagraphLoose && it.Leading == 1 && len(it.Nested) > 0 {
			if nested := it.Nested[0]; nested.Run != nil && nested.Run.Markers[0].Type == it.Marker.Type {
				nested.Node.Flags |= blocktree.ParentLoose
			}
		}
	}
	c.decorate(l.Node, items, l.Run)
}

// demote turns a literal list whose markers did not agree back into an
// unordered list, leaving item text as written.
func (c *Converter) demote(tree *blocktree.Tree, l *analyze.List) {
	l.Node.Kind = blocktree.BulletListOpen
	l.Node.Flags &^= blocktree.Literal
	if close := tree.Nodes[l.Close]; close.Kind.IsListClose() {
		close.Kind = blocktree.BulletListClose
		close.Flags = l.Node.Flags
	}
}

func stripMarker(inline *blocktree.Node, m markers.Marker) {
	if inline == nil {
		return
	}
	text := strings.TrimLeft(inline.Text, " \t　")
	if strings.HasPrefix(text, m.Source+m.Joint) {
		inline.Text = text[m.Len():]
	}
}

func setHidden(open, close *blocktree.Node, hidden bool) {
	if open != nil {
		open.Hidden = hidden
	}
	if close != nil {
		close.Hidden = hidden
	}
}

// decorate (re)computes numbering attributes for an ordered list and its
// items from a marker run.
func (c *Converter) decorate(list *blocktree.Node, items []*blocktree.Node, run *analyze.Run) {
	list.DelAttr(AttrStart, AttrType, AttrClass, AttrRole, AttrPrefix, AttrSuffix)
	for _, it := range items {
		it.DelAttr(AttrValue)
	}
	typ, ok := c.Registry.Type(run.Type)
	if !ok || len(run.Markers) == 0 {
		return
	}

	first := run.Markers[0]
	def := typ.Default()
	plain := first.Prefix == def.Prefix && first.Suffix == def.Suffix
	native := plain && typ.HTMLType != ""

	list.SetAttr(AttrClass, c.className(typ, first, plain))
	if native && typ.HTMLType != "1" {
		list.SetAttr(AttrType, typ.HTMLType)
	}
	if !native {
		if !c.Options.SuppressRole {
			list.SetAttr(AttrRole, "list")
		}
		if !c.Options.OmitMetadata {
			if first.Prefix != "" {
				list.SetAttr(AttrPrefix, first.Prefix)
			}
			if first.Suffix != "" {
				list.SetAttr(AttrSuffix, first.Suffix)
			}
		}
	}

	if run.Ordinals[0] != 1 {
		list.SetAttr(AttrStart, strconv.Itoa(run.Ordinals[0]))
	}
	if !run.AllLiteralOne {
		for i := 1; i < len(items) && i < len(run.Ordinals); i++ {
			if n := run.Ordinals[i]; n != run.Ordinals[i-1]+1 {
				items[i].SetAttr(AttrValue, strconv.Itoa(n))
			}
		}
	}

	if _, seen := c.native[list]; !seen {
		c.decorated = append(c.decorated, list)
	}
	c.native[list] = native
}

// className is "ol-<type>", extended with "-with-<prefix>-<suffix>" for
// decorations other than the type's default.
func (c *Converter) className(typ *markers.TypeDef, m markers.Marker, plain bool) string {
	class := "ol-" + typ.Name
	if plain {
		return class
	}
	pre, preOK := c.Registry.AffixName(m.Prefix)
	suf, sufOK := c.Registry.AffixName(m.Suffix)
	if !preOK && !sufOK {
		return class
	}
	if !preOK {
		pre = "custom"
	}
	if !sufOK {
		suf = "custom"
	}
	return class + "-with-" + pre + "-" + suf
}

// propagateLoose un-hides item paragraphs of lists flagged as inheriting
// looseness, passing the flag down to their own nested lists.
func (c *Converter) propagateLoose(tree *blocktree.Tree) {
	idx := tree.Index()
	for i, n := range tree.Nodes {
		if !n.Kind.IsListOpen() || !n.Has(blocktree.ParentLoose) {
			continue
		}
		for _, it := range tree.Children(idx, i) {
			for _, k := range tree.Children(idx, it) {
				switch child := tree.Nodes[k]; {
				case child.Kind == blocktree.ParagraphOpen:
					setHidden(child, tree.Nodes[idx.Close(k)], false)
				case child.Kind.IsListOpen():
					child.Flags |= blocktree.ParentLoose
				}
			}
		}
	}
}
