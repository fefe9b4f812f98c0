package blocktree

import (
	"fmt"
	"io"
	"strings"
)

var kindNames = [...]string{
	noKind:           "None",
	BulletListOpen:   "BulletList",
	BulletListClose:  "/BulletList",
	OrderedListOpen:  "OrderedList",
	OrderedListClose: "/OrderedList",
	ItemOpen:         "Item",
	ItemClose:        "/Item",
	ParagraphOpen:    "Paragraph",
	ParagraphClose:   "/Paragraph",
	BlockquoteOpen:   "Blockquote",
	BlockquoteClose:  "/Blockquote",
	DescListOpen:     "DescList",
	DescListClose:    "/DescList",
	TermOpen:         "Term",
	TermClose:        "/Term",
	DetailsOpen:      "Details",
	DetailsClose:     "/Details",
	Inline:           "Inline",
	CodeBlock:        "CodeBlock",
	Heading:          "Heading",
	HTMLBlock:        "HTMLBlock",
	Rule:             "Rule",
}

// Format writes a kind name string representing the receiver.
func (k Kind) Format(f fmt.State, _ rune) {
	if k >= 0 && int(k) < len(kindNames) {
		io.WriteString(f, kindNames[k])
	} else {
		fmt.Fprintf(f, "InvalidKind%v", int(k))
	}
}

func (k Kind) String() string { return fmt.Sprint(k) }

// Format writes a textual representation of the receiver node. Produces a
// verbose "Kind attr=value" form when formatted with `%+v`, and a terse form
// with only the kind and any text otherwise.
func (n *Node) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, n.Kind)
	if n.Kind == Heading {
		fmt.Fprint(f, n.Level)
	}
	if f.Flag('+') {
		if n.Lines.Valid() {
			fmt.Fprintf(f, " lines=%v-%v", n.Lines.Start, n.Lines.End)
		}
		if n.Hidden {
			io.WriteString(f, " hidden")
		}
		if n.Ordinal != 0 {
			fmt.Fprintf(f, " ordinal=%v", n.Ordinal)
		}
		if n.Kind.IsOpen() {
			writeFlags(f, n.Flags)
		}
		for _, key := range n.Attrs.Keys() {
			fmt.Fprintf(f, " %v=%q", key, n.Attrs[key])
		}
	}
	for _, span := range n.Spans {
		fmt.Fprintf(f, " <%v:%q>", span.Class, span.Text)
	}
	if n.Text != "" {
		fmt.Fprintf(f, " %q", n.Text)
	}
}

func writeFlags(w io.Writer, flags Flags) {
	if flags&Literal != 0 {
		io.WriteString(w, " literal")
	}
	if flags&Converted != 0 {
		io.WriteString(w, " converted")
	}
	if flags&ParentLoose != 0 {
		io.WriteString(w, " parent-loose")
	}
}

// Format writes one node per line, indented by depth. Close nodes are elided
// unless formatted with `%+v`.
func (t *Tree) Format(f fmt.State, _ rune) {
	if len(t.Nodes) == 0 {
		io.WriteString(f, "-- empty --")
		return
	}
	verbose := f.Flag('+')
	first := true
	for _, n := range t.Nodes {
		if !verbose && n.Kind.IsClose() {
			continue
		}
		if !first {
			io.WriteString(f, "\n")
		}
		first = false
		io.WriteString(f, strings.Repeat("  ", n.Depth))
		if verbose {
			fmt.Fprintf(f, "%+v", n)
		} else {
			fmt.Fprintf(f, "%v", n)
		}
	}
}
