package blocktree

// Builder appends nodes to a Tree, tracking open containers so that every
// node receives the depth implied by its nesting.
type Builder struct {
	tree  Tree
	stack []*Node
}

// NewBuilder returns a Builder whose first node will sit at the given depth.
func NewBuilder(depth int) *Builder {
	var b Builder
	for i := 0; i < depth; i++ {
		b.stack = append(b.stack, nil)
	}
	return &b
}

// Depth returns the depth the next node will receive.
func (b *Builder) Depth() int { return len(b.stack) }

// Open appends an opening node and pushes it onto the container stack.
func (b *Builder) Open(kind Kind) *Node {
	n := &Node{Kind: kind, Depth: len(b.stack)}
	b.tree.Nodes = append(b.tree.Nodes, n)
	b.stack = append(b.stack, n)
	return n
}

// Close pops the innermost open container, appending its closing node.
// Close returns nil if no container is open.
func (b *Builder) Close() *Node {
	i := len(b.stack) - 1
	if i < 0 || b.stack[i] == nil {
		return nil
	}
	open := b.stack[i]
	b.stack = b.stack[:i]
	n := &Node{
		Kind:  open.Kind.Close(),
		Depth: len(b.stack),
		Lines: open.Lines,
		Flags: open.Flags,
	}
	b.tree.Nodes = append(b.tree.Nodes, n)
	return n
}

// Leaf appends a childless node.
func (b *Builder) Leaf(kind Kind, text string) *Node {
	n := &Node{Kind: kind, Depth: len(b.stack), Text: text}
	b.tree.Nodes = append(b.tree.Nodes, n)
	return n
}

// Paragraph appends a paragraph holding one Inline node, returning the
// paragraph open node.
func (b *Builder) Paragraph(text string, hidden bool) *Node {
	open := b.Open(ParagraphOpen)
	open.Hidden = hidden
	b.Leaf(Inline, text)
	b.Close().Hidden = hidden
	return open
}

// Item appends a list item holding one tight paragraph, returning the item
// open node.
func (b *Builder) Item(text string) *Node {
	item := b.Open(ItemOpen)
	b.Paragraph(text, true)
	b.Close()
	return item
}

// List appends a complete tight list of single-paragraph items.
func (b *Builder) List(kind Kind, texts ...string) *Node {
	list := b.Open(kind)
	for _, text := range texts {
		b.Item(text)
	}
	b.Close()
	return list
}

// Append adds already-constructed nodes verbatim.
func (b *Builder) Append(nodes ...*Node) {
	b.tree.Nodes = append(b.tree.Nodes, nodes...)
}

// Nodes returns the nodes built so far.
func (b *Builder) Nodes() []*Node { return b.tree.Nodes }

// Tree closes any open containers and returns the built tree.
func (b *Builder) Tree() *Tree {
	for b.Close() != nil {
	}
	return &b.tree
}
