package literal

import "github.com/jcorbin/olify/blocktree"

// mergeAdjacent joins sibling literal lists that are directly adjacent, or
// separated by exactly one paragraph. A separating paragraph becomes a
// continuation of the first list's last item, which makes the merged list
// loose. Returns the number of merges.
func mergeAdjacent(tree *blocktree.Tree) (n int) {
	for i := 0; i < tree.Len(); i++ {
		node := tree.Nodes[i]
		if node.Kind != blocktree.OrderedListOpen || !node.Has(blocktree.Literal) {
			continue
		}
		for mergeNext(tree, i) {
			n++
		}
	}
	return n
}

func mergeNext(tree *blocktree.Tree, at int) bool {
	idx := tree.Index()
	list := tree.Nodes[at]
	end := idx.Close(at)
	if end == at || tree.Nodes[end-1].Kind != blocktree.ItemClose {
		return false
	}

	var para []*blocktree.Node
	next := end + 1
	if p := tree.At(next); p != nil && p.Kind == blocktree.ParagraphOpen && p.Depth == list.Depth {
		pend := idx.Close(next)
		para = tree.Nodes[next : pend+1]
		next = pend + 1
	}
	other := tree.At(next)
	if other == nil || other.Kind != blocktree.OrderedListOpen ||
		!other.Has(blocktree.Literal) || other.Depth != list.Depth {
		return false
	}
	otherEnd := idx.Close(next)

	var nodes []*blocktree.Node
	nodes = append(nodes, tree.Nodes[at:end-1]...)
	for _, p := range para {
		p.Depth += 2
	}
	nodes = append(nodes, para...)
	nodes = append(nodes, tree.Nodes[end-1])
	nodes = append(nodes, tree.Nodes[next+1:otherEnd]...)
	nodes = append(nodes, tree.Nodes[end])

	if len(para) > 0 {
		for _, node := range nodes {
			if node.Depth == list.Depth+2 &&
				(node.Kind == blocktree.ParagraphOpen || node.Kind == blocktree.ParagraphClose) {
				node.Hidden = false
			}
		}
	}

	// container ranges are recomputed by FillLines afterwards
	list.Lines, tree.Nodes[end].Lines = blocktree.LineRange{}, blocktree.LineRange{}
	last := tree.Nodes[end-1]
	if len(para) > 0 {
		if lastOpen := lastItemOpen(tree.Nodes[at:end], list.Depth+1); lastOpen != nil {
			lastOpen.Lines, last.Lines = blocktree.LineRange{}, blocktree.LineRange{}
		}
	}

	tree.Splice(at, otherEnd+1, nodes...)
	return true
}

func lastItemOpen(nodes []*blocktree.Node, depth int) (last *blocktree.Node) {
	for _, n := range nodes {
		if n.Kind == blocktree.ItemOpen && n.Depth == depth {
			last = n
		}
	}
	return last
}
