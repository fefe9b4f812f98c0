// Package blocktree models a tokenized markdown document as a flat sequence of
// open, close, and leaf block nodes, in the manner of markdown-it token
// streams.
package blocktree

import "sort"

// Kind identifies the type of a block Node.
type Kind int

// Kind values; open and close kinds come in pairs.
const (
	noKind Kind = iota

	BulletListOpen
	BulletListClose
	OrderedListOpen
	OrderedListClose
	ItemOpen
	ItemClose
	ParagraphOpen
	ParagraphClose
	BlockquoteOpen
	BlockquoteClose
	DescListOpen
	DescListClose
	TermOpen
	TermClose
	DetailsOpen
	DetailsClose

	Inline
	CodeBlock
	Heading
	HTMLBlock
	Rule
)

var closeOf = map[Kind]Kind{
	BulletListOpen:  BulletListClose,
	OrderedListOpen: OrderedListClose,
	ItemOpen:        ItemClose,
	ParagraphOpen:   ParagraphClose,
	BlockquoteOpen:  BlockquoteClose,
	DescListOpen:    DescListClose,
	TermOpen:        TermClose,
	DetailsOpen:     DetailsClose,
}

var openOf = func() map[Kind]Kind {
	m := make(map[Kind]Kind, len(closeOf))
	for open, close := range closeOf {
		m[close] = open
	}
	return m
}()

// IsOpen returns true for container-opening kinds.
func (k Kind) IsOpen() bool { _, ok := closeOf[k]; return ok }

// IsClose returns true for container-closing kinds.
func (k Kind) IsClose() bool { _, ok := openOf[k]; return ok }

// IsListOpen returns true for either list-open kind.
func (k Kind) IsListOpen() bool { return k == BulletListOpen || k == OrderedListOpen }

// IsListClose returns true for either list-close kind.
func (k Kind) IsListClose() bool { return k == BulletListClose || k == OrderedListClose }

// Close returns the closing kind paired with an opening kind, or noKind.
func (k Kind) Close() Kind { return closeOf[k] }

// Open returns the opening kind paired with a closing kind, or noKind.
func (k Kind) Open() Kind { return openOf[k] }

// pairs reports whether close may terminate a container opened as open.
// Either list close matches either list open, since conversion flips both
// ends in place.
func pairs(open, close Kind) bool {
	if open.IsListOpen() {
		return close.IsListClose()
	}
	return closeOf[open] == close
}

// LineRange is a half-open, 0-based span of source lines.
// The zero value means the range is unknown.
type LineRange struct {
	Start, End int
}

// Valid returns true if the range carries any source lines.
func (lr LineRange) Valid() bool { return lr.End > lr.Start }

// Flags records facts that later passes attach to nodes.
type Flags uint8

// Flag bits.
const (
	// Literal marks list nodes synthesized from indentation-only literal lines.
	Literal Flags = 1 << iota

	// Converted marks list nodes that were rewritten from unordered to ordered.
	Converted

	// ParentLoose marks lists that inherit loose rendering from an ancestor.
	ParentLoose
)

// Span is a piece of inline markup rendered in front of an Inline node's text.
type Span struct {
	Class string
	Text  string
}

// Attrs is a node attribute map.
type Attrs map[string]string

// Keys returns the attribute names in sorted order.
func (as Attrs) Keys() []string {
	keys := make([]string, 0, len(as))
	for k := range as {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Node is a single entry in a Tree.
type Node struct {
	Kind  Kind
	Depth int
	Lines LineRange
	Attrs Attrs

	// Text is the raw content of Inline, CodeBlock, Heading, and HTMLBlock
	// nodes.
	Text string

	// Level is the heading level of Heading nodes.
	Level int

	// Hidden is set on paragraph nodes whose wrapper the tokenizer suppressed
	// in a tight list.
	Hidden bool

	// Ordinal is the item number the tokenizer read for ordered list items;
	// zero when unknown.
	Ordinal int

	// Delim is the list bullet or ordered delimiter byte.
	Delim byte

	Spans []Span
	Flags Flags
}

// Attr returns a named attribute value.
func (n *Node) Attr(key string) (string, bool) {
	val, ok := n.Attrs[key]
	return val, ok
}

// SetAttr sets a named attribute, allocating the map as needed.
func (n *Node) SetAttr(key, val string) {
	if n.Attrs == nil {
		n.Attrs = make(Attrs)
	}
	n.Attrs[key] = val
}

// DelAttr removes any named attributes.
func (n *Node) DelAttr(keys ...string) {
	for _, key := range keys {
		delete(n.Attrs, key)
	}
}

// Has returns true if all given flags are set.
func (n *Node) Has(f Flags) bool { return n.Flags&f == f }
