package blocktree

// Tree is a flat, depth-annotated sequence of block nodes.
//
// Structural edits shift positions, so callers must not hold indices across a
// Splice; rebuild an Index instead. Node pointers stay stable and may be used
// as side-table keys.
type Tree struct {
	Nodes []*Node
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// At returns the i-th node, or nil if out of range.
func (t *Tree) At(i int) *Node {
	if i < 0 || i >= len(t.Nodes) {
		return nil
	}
	return t.Nodes[i]
}

// Splice replaces the nodes in [i, j) with the given nodes.
func (t *Tree) Splice(i, j int, nodes ...*Node) {
	tail := append([]*Node(nil), t.Nodes[j:]...)
	t.Nodes = append(append(t.Nodes[:i], nodes...), tail...)
}

// Shift adds delta to the depth of every node in [i, j).
func (t *Tree) Shift(i, j, delta int) {
	for _, n := range t.Nodes[i:j] {
		n.Depth += delta
	}
}

// Index maps open node positions to their matching close positions.
type Index struct {
	close      []int
	Unbalanced int
}

// Index performs a single stack scan to pair every open node with its close.
// Opens left unmatched map to the last node of the tree, treating them as
// extending to the end; their count is recorded in Unbalanced.
func (t *Tree) Index() Index {
	idx := Index{close: make([]int, len(t.Nodes))}
	var stack []int
	for i, n := range t.Nodes {
		idx.close[i] = -1
		switch {
		case n.Kind.IsOpen():
			stack = append(stack, i)
		case n.Kind.IsClose():
			for j := len(stack) - 1; j >= 0; j-- {
				open := stack[j]
				if pairs(t.Nodes[open].Kind, n.Kind) && t.Nodes[open].Depth == n.Depth {
					// any opens above j never closed
					for _, unclosed := range stack[j+1:] {
						idx.close[unclosed] = i - 1
						idx.Unbalanced++
					}
					idx.close[open] = i
					stack = stack[:j]
					break
				}
			}
		}
	}
	for _, open := range stack {
		idx.close[open] = len(t.Nodes) - 1
		idx.Unbalanced++
	}
	return idx
}

// Close returns the matching close position for the open node at i, or i
// itself for leaf and close nodes.
func (idx Index) Close(i int) int {
	if i < 0 || i >= len(idx.close) || idx.close[i] < 0 {
		return i
	}
	return idx.close[i]
}

// Children returns the positions of nodes in (open, close) that sit exactly
// one level below the open node at i.
func (t *Tree) Children(idx Index, i int) []int {
	var kids []int
	close := idx.Close(i)
	depth := t.Nodes[i].Depth + 1
	for j := i + 1; j < close; j++ {
		n := t.Nodes[j]
		if n.Depth != depth || n.Kind.IsClose() {
			continue
		}
		kids = append(kids, j)
		if n.Kind.IsOpen() {
			j = idx.Close(j)
		}
	}
	return kids
}

// FillLines sets the line range of every container node whose range is
// unknown to the span covered by its descendants.
func (t *Tree) FillLines() {
	idx := t.Index()
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		n := t.Nodes[i]
		if !n.Kind.IsOpen() || n.Lines.Valid() {
			continue
		}
		close := idx.Close(i)
		var lr LineRange
		for _, m := range t.Nodes[i+1 : close+1] {
			if !m.Lines.Valid() {
				continue
			}
			if !lr.Valid() || m.Lines.Start < lr.Start {
				lr.Start = m.Lines.Start
			}
			if m.Lines.End > lr.End {
				lr.End = m.Lines.End
			}
		}
		n.Lines = lr
		if c := t.Nodes[close]; c.Kind.IsClose() && !c.Lines.Valid() {
			c.Lines = lr
		}
	}
}
