package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/markers"
)

type K = blocktree.Kind

const (
	bl  = blocktree.BulletListOpen
	blc = blocktree.BulletListClose
	ol  = blocktree.OrderedListOpen
	olc = blocktree.OrderedListClose
	li  = blocktree.ItemOpen
	lic = blocktree.ItemClose
	p   = blocktree.ParagraphOpen
	pc  = blocktree.ParagraphClose
	in  = blocktree.Inline
)

func itemTree(paras ...string) *blocktree.Tree {
	b := blocktree.NewBuilder(0)
	b.Open(bl)
	b.Open(li)
	for _, text := range paras {
		b.Paragraph(text, len(paras) == 1)
	}
	return b.Tree()
}

func kinds(tree *blocktree.Tree) (ks []K) {
	for _, n := range tree.Nodes {
		ks = append(ks, n.Kind)
	}
	return ks
}

func texts(tree *blocktree.Tree) (ts []string) {
	for _, n := range tree.Nodes {
		if n.Kind == in {
			ts = append(ts, n.Text)
		}
	}
	return ts
}

func recoverer() *Recoverer { return &Recoverer{Registry: markers.MustDefault()} }

func TestRecover_nested(t *testing.T) {
	tree := itemTree("Parent\n  1. Child one\n  2. Child two")
	require.Equal(t, 1, recoverer().Recover(tree))

	assert.Equal(t, []K{
		bl, li,
		p, in, pc,
		ol,
		li, p, in, pc, lic,
		li, p, in, pc, lic,
		olc,
		lic, blc,
	}, kinds(tree))
	assert.Equal(t, []string{"Parent", "1. Child one", "2. Child two"}, texts(tree))

	list := tree.Nodes[5]
	assert.True(t, list.Has(blocktree.Literal))
	assert.Equal(t, 2, list.Depth)
	assert.Equal(t, 1, tree.Nodes[6].Ordinal)
	assert.Equal(t, 2, tree.Nodes[11].Ordinal)
	assert.True(t, tree.Nodes[7].Hidden, "tight literal items hide their paragraphs")
	assert.True(t, tree.Nodes[2].Hidden, "leading text keeps its paragraph")
	assert.Zero(t, tree.Index().Unbalanced)
}

func TestRecover_deeper(t *testing.T) {
	tree := itemTree("Parent\n  1. one\n    a. inner\n  2. two")
	require.Equal(t, 1, recoverer().Recover(tree))

	assert.Equal(t, []K{
		bl, li,
		p, in, pc,
		ol,
		li, p, in, pc,
		ol, li, p, in, pc, lic, olc,
		lic,
		li, p, in, pc, lic,
		olc,
		lic, blc,
	}, kinds(tree))
	assert.Equal(t, []string{"Parent", "1. one", "a. inner", "2. two"}, texts(tree))
	assert.Equal(t, 4, tree.Nodes[10].Depth)
	assert.True(t, tree.Nodes[10].Has(blocktree.Literal))
}

func TestRecover_blankMakesLoose(t *testing.T) {
	tree := itemTree("Parent\n  1. one\n\n  2. two")
	require.Equal(t, 1, recoverer().Recover(tree))
	assert.Equal(t, []string{"Parent", "1. one", "2. two"}, texts(tree))
	for _, n := range tree.Nodes[5:] {
		if n.Kind == p {
			assert.False(t, n.Hidden)
		}
	}
}

func TestRecover_trailingText(t *testing.T) {
	tree := itemTree("Parent\n  1. one\n  2. two\nafter")
	require.Equal(t, 1, recoverer().Recover(tree))
	assert.Equal(t, []string{"Parent", "1. one", "2. two", "after"}, texts(tree))
	last := tree.Nodes[len(tree.Nodes)-5]
	assert.Equal(t, p, last.Kind)
	assert.Equal(t, 2, last.Depth)
}

func TestRecover_lines(t *testing.T) {
	tree := itemTree("Parent\n  1. one\n  2. two")
	tree.Nodes[2].Lines = blocktree.LineRange{Start: 4, End: 7}
	tree.Nodes[3].Lines = tree.Nodes[2].Lines
	tree.Nodes[4].Lines = tree.Nodes[2].Lines
	recoverer().Recover(tree)

	assert.Equal(t, blocktree.LineRange{Start: 4, End: 5}, tree.Nodes[2].Lines)
	assert.Equal(t, blocktree.LineRange{Start: 5, End: 7}, tree.Nodes[5].Lines)
	assert.Equal(t, blocktree.LineRange{Start: 5, End: 6}, tree.Nodes[6].Lines)
	assert.Equal(t, blocktree.LineRange{Start: 6, End: 7}, tree.Nodes[11].Lines)
}

func TestRecover_mergeAcrossParagraph(t *testing.T) {
	tree := itemTree("Parent\n  1. one", "middle", "  2. two")
	require.Equal(t, 2, recoverer().Recover(tree))

	assert.Equal(t, []K{
		bl, li,
		p, in, pc,
		ol,
		li, p, in, pc, p, in, pc, lic,
		li, p, in, pc, lic,
		olc,
		lic, blc,
	}, kinds(tree))
	assert.Equal(t, []string{"Parent", "1. one", "middle", "2. two"}, texts(tree))
	assert.Equal(t, 4, tree.Nodes[10].Depth)
	for _, n := range tree.Nodes[6:19] {
		if n.Kind == p {
			assert.False(t, n.Hidden, "merged list is loose")
		}
	}
}

func TestRecover_none(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
	}{
		{"unindented", "Parent\n1. not nested"},
		{"no content", "Parent\n  1."},
		{"no marker", "Parent\n  just text"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tree := itemTree(tc.text)
			before := len(tree.Nodes)
			assert.Equal(t, 0, recoverer().Recover(tree))
			assert.Equal(t, before, len(tree.Nodes))
			assert.Equal(t, []string{tc.text}, texts(tree))
		})
	}
}

func TestRecover_outsideItem(t *testing.T) {
	b := blocktree.NewBuilder(0)
	b.Paragraph("Top\n  1. one", false)
	tree := b.Tree()
	assert.Equal(t, 0, recoverer().Recover(tree))
}

func TestTrimIndent(t *testing.T) {
	for _, tc := range []struct {
		in   string
		n    int
		tail string
	}{
		{"x", 0, "x"},
		{"  x", 2, "x"},
		{"\tx", 4, "x"},
		{"  \tx", 4, "x"},
		{"     \tx", 8, "x"},
		{"   ", 3, ""},
	} {
		n, tail := trimIndent(tc.in)
		assert.Equal(t, tc.n, n, "%q", tc.in)
		assert.Equal(t, tc.tail, tail, "%q", tc.in)
	}
}

func TestRecover_blankEndsRun(t *testing.T) {
	tree := blocktree.FromGoldmark([]byte("- Parent\n   a. one\n\n   b. two\n"))
	require.Equal(t, 1, recoverer().Recover(tree))

	var lists int
	for _, n := range tree.Nodes {
		if n.Kind == ol {
			lists++
		}
	}
	assert.Equal(t, 1, lists)
	ts := texts(tree)
	assert.Equal(t, "b. two", ts[len(ts)-1], "a paragraph after a blank line stays plain text")
}
