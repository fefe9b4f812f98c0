package convert

import (
	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/internal/analyze"
	"github.com/jcorbin/olify/internal/logging"
)

// flatten collapses wrapper lists until none remain, returning how many were
// collapsed. A wrapper list is an unordered list whose every item holds
// nothing but one ordered list; such markup only exists to indent.
func (c *Converter) flatten(tree *blocktree.Tree) (n int) {
	for {
		idx := tree.Index()
		merged := false
		for i, node := range tree.Nodes {
			if node.Kind == blocktree.BulletListOpen && c.flattenAt(tree, idx, i) {
				merged = true
				n++
				break
			}
		}
		if !merged {
			return n
		}
	}
}

func (c *Converter) flattenAt(tree *blocktree.Tree, idx blocktree.Index, at int) bool {
	outer := tree.Nodes[at]
	var items, inner []int
	for _, k := range tree.Children(idx, at) {
		if tree.Nodes[k].Kind != blocktree.ItemOpen {
			return false
		}
		kids := tree.Children(idx, k)
		if len(kids) != 1 || tree.Nodes[kids[0]].Kind != blocktree.OrderedListOpen {
			return false
		}
		items = append(items, k)
		inner = append(inner, kids[0])
	}
	if len(inner) == 0 {
		return false
	}

	var run analyze.Run
	for _, o := range inner {
		r := c.runs[tree.Nodes[o]]
		if r == nil || len(r.Markers) != len(itemsOf(tree, idx, o)) {
			return false
		}
		run.Markers = append(run.Markers, r.Markers...)
	}
	run.Type = run.Markers[0].Type
	for _, m := range run.Markers {
		if m.Type != run.Type {
			return false
		}
	}
	run.Consistent = true
	run.Ordinals, run.AllLiteralOne = analyze.Sequence(run.Markers)

	outerLoose := gapBetween(tree, items)
	innerLoose := false
	blocked := make(map[*blocktree.Node]bool)
	for _, o := range inner {
		its := itemsOf(tree, idx, o)
		if gapBetween(tree, its) {
			innerLoose = true
		}
		for _, it := range its {
			leading := 0
			for _, k := range tree.Children(idx, it) {
				kid := tree.Nodes[k]
				if kid.Kind.IsListOpen() {
					break
				}
				if kid.Kind == blocktree.ParagraphOpen {
					if leading == 0 && !kid.Hidden {
						innerLoose = true
					}
					leading++
				}
			}
			if leading > 1 {
				blocked[tree.Nodes[it]] = true
			}
		}
	}
	loose := outerLoose || innerLoose || len(blocked) > 0
	propagate := outerLoose || innerLoose || outer.Has(blocktree.ParentLoose)

	first := tree.Nodes[inner[0]]
	nodes := []*blocktree.Node{first}
	for _, o := range inner {
		nodes = append(nodes, tree.Nodes[o+1:idx.Close(o)]...)
	}
	last := tree.Nodes[idx.Close(inner[len(inner)-1])]
	last.Kind = blocktree.OrderedListClose
	nodes = append(nodes, last)
	for _, n := range nodes {
		n.Depth -= 2
	}
	first.Lines = outer.Lines
	first.Flags |= outer.Flags & blocktree.ParentLoose
	last.Lines, last.Flags = first.Lines, first.Flags
	for _, o := range inner[1:] {
		delete(c.runs, tree.Nodes[o])
	}
	tree.Splice(at, idx.Close(at)+1, nodes...)

	idx = tree.Index()
	merged := itemsOf(tree, idx, at)
	itemNodes := make([]*blocktree.Node, len(merged))
	for i, it := range merged {
		itemNodes[i] = tree.Nodes[it]
		itemNodes[i].Ordinal = run.Ordinals[i]
		paragraphs := 0
		for _, k := range tree.Children(idx, it) {
			kid := tree.Nodes[k]
			switch {
			case kid.Kind == blocktree.ParagraphOpen:
				if paragraphs == 0 {
					setHidden(kid, tree.Nodes[idx.Close(k)], !loose)
				}
				paragraphs++
			case kid.Kind.IsListOpen() && propagate && !blocked[itemNodes[i]]:
				kid.Flags |= blocktree.ParentLoose
			}
		}
	}
	c.runs[first] = &run
	c.decorate(first, itemNodes, &run)

	logging.OrDiscard(c.Log).Debug("flattened wrapper list",
		"line", outer.Lines.Start+1,
		"items", len(itemNodes),
		"loose", loose)
	return true
}

// itemsOf returns the positions of a list's direct items.
func itemsOf(tree *blocktree.Tree, idx blocktree.Index, list int) []int {
	var items []int
	for _, k := range tree.Children(idx, list) {
		if tree.Nodes[k].Kind == blocktree.ItemOpen {
			items = append(items, k)
		}
	}
	return items
}

// gapBetween returns true if a blank source line separates any two
// consecutive nodes with known line ranges.
func gapBetween(tree *blocktree.Tree, at []int) bool {
	for i := 1; i < len(at); i++ {
		prev, next := tree.Nodes[at[i-1]].Lines, tree.Nodes[at[i]].Lines
		if prev.Valid() && next.Valid() && next.Start > prev.End {
			return true
		}
	}
	return false
}
