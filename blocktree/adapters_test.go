package blocktree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inlineTexts(tree *Tree) (ts []string) {
	for _, n := range tree.Nodes {
		if n.Kind == Inline {
			ts = append(ts, n.Text)
		}
	}
	return ts
}

func firstOf(tree *Tree, kind Kind) *Node {
	for _, n := range tree.Nodes {
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

func TestFromGoldmark(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want string
	}{
		{
			name: "tight bullets",
			src:  "- a. Alpha\n- b. Beta\n",
			want: `BulletList
  Item
    Paragraph
      Inline "a. Alpha"
  Item
    Paragraph
      Inline "b. Beta"`,
		},
		{
			name: "heading and paragraph",
			src:  "# Title\n\nSome text\nwrapped.\n",
			want: `Heading1 "Title"
Paragraph
  Inline "Some text\nwrapped."`,
		},
		{
			name: "blockquote",
			src:  "> - x\n> - y\n",
			want: `Blockquote
  BulletList
    Item
      Paragraph
        Inline "x"
    Item
      Paragraph
        Inline "y"`,
		},
		{
			name: "continuation indent",
			src:  "- Parent\n    a. one\n    b. two\n",
			want: `BulletList
  Item
    Paragraph
      Inline "Parent\n  a. one\n  b. two"`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tree := FromGoldmark([]byte(tc.src))
			assert.Equal(t, tc.want, fmt.Sprintf("%v", tree))
			assert.Zero(t, tree.Index().Unbalanced)
		})
	}
}

func TestFromGoldmark_lines(t *testing.T) {
	tree := FromGoldmark([]byte("- a. Alpha\n- b. Beta\n\ntext\n"))
	require.Equal(t, BulletListOpen, tree.Nodes[0].Kind)
	assert.Equal(t, LineRange{Start: 0, End: 2}, tree.Nodes[0].Lines)
	assert.Equal(t, LineRange{Start: 0, End: 1}, tree.Nodes[1].Lines)
	assert.Equal(t, LineRange{Start: 1, End: 2}, tree.Nodes[6].Lines)

	para := tree.Nodes[len(tree.Nodes)-3]
	require.Equal(t, ParagraphOpen, para.Kind)
	assert.False(t, para.Hidden)
	assert.Equal(t, LineRange{Start: 3, End: 4}, para.Lines)
	assert.True(t, tree.Nodes[2].Hidden)
}

func TestFromGoldmark_ordinals(t *testing.T) {
	tree := FromGoldmark([]byte("3. Foo\n4. Bar\n7. Baz\n"))
	list := tree.Nodes[0]
	require.Equal(t, OrderedListOpen, list.Kind)
	assert.Equal(t, byte('.'), list.Delim)
	var ords []int
	for _, n := range tree.Nodes {
		if n.Kind == ItemOpen {
			ords = append(ords, n.Ordinal)
		}
	}
	assert.Equal(t, []int{3, 4, 7}, ords)
	assert.Equal(t, []string{"Foo", "Bar", "Baz"}, inlineTexts(tree))
}

func TestFromGoldmark_loose(t *testing.T) {
	tree := FromGoldmark([]byte("- a. Alpha\n\n- b. Beta\n"))
	for _, n := range tree.Nodes {
		if n.Kind == ParagraphOpen {
			assert.False(t, n.Hidden)
		}
	}
}

func TestFromGoldmark_definitionList(t *testing.T) {
	tree := FromGoldmark([]byte("Term\n: - a. x\n  - b. y\n"))
	assert.NotNil(t, firstOf(tree, DescListOpen))
	assert.NotNil(t, firstOf(tree, TermOpen))
	assert.NotNil(t, firstOf(tree, DetailsOpen))
	assert.Contains(t, inlineTexts(tree), "Term")
	assert.Zero(t, tree.Index().Unbalanced)
}

func TestFromGoldmark_code(t *testing.T) {
	tree := FromGoldmark([]byte("```\ncode\n```\n\n---\n"))
	code := firstOf(tree, CodeBlock)
	require.NotNil(t, code)
	assert.Equal(t, "code\n", code.Text)
	assert.NotNil(t, firstOf(tree, Rule))
}

func TestFromBlackfriday(t *testing.T) {
	tree := FromBlackfriday([]byte("- a. Alpha\n- b. Beta\n"))
	assert.Equal(t, `BulletList
  Item
    Paragraph
      Inline "a. Alpha"
  Item
    Paragraph
      Inline "b. Beta"`, fmt.Sprintf("%v", tree))
	assert.Equal(t, byte('-'), tree.Nodes[0].Delim)
	assert.True(t, tree.Nodes[2].Hidden)
	assert.False(t, tree.Nodes[0].Lines.Valid())
}

func TestFromBlackfriday_ordered(t *testing.T) {
	tree := FromBlackfriday([]byte("1. Foo\n2. Bar\n"))
	list := tree.Nodes[0]
	require.Equal(t, OrderedListOpen, list.Kind)
	assert.Equal(t, byte('.'), list.Delim)
	assert.Equal(t, 1, tree.Nodes[1].Ordinal)
	assert.Equal(t, 2, tree.Nodes[6].Ordinal)
	assert.Equal(t, []string{"Foo", "Bar"}, inlineTexts(tree))
}

func TestFromBlackfriday_inline(t *testing.T) {
	tree := FromBlackfriday([]byte("some *emph* and `code` [link](http://x)\n"))
	assert.Equal(t, []string{"some *emph* and `code` [link](http://x)"}, inlineTexts(tree))
	assert.False(t, tree.Nodes[0].Hidden)
}
