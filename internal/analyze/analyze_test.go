package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/markers"
)

func analyzer() *Analyzer { return &Analyzer{Registry: markers.MustDefault()} }

func bulletTree(texts ...string) *blocktree.Tree {
	b := blocktree.NewBuilder(0)
	b.List(blocktree.BulletListOpen, texts...)
	return b.Tree()
}

func TestAnalyze_runs(t *testing.T) {
	for _, tc := range []struct {
		name       string
		texts      []string
		typ        string
		ordinals   []int
		consistent bool
		convert    bool
	}{
		{"decimal", []string{"1. Foo", "2. Bar"}, "decimal", []int{1, 2}, true, true},
		{"gap", []string{"1. Foo", "3. Bar"}, "decimal", []int{1, 3}, true, true},
		{"latin paren", []string{"a) Alpha", "b) Beta"}, "lower-latin", []int{1, 2}, true, true},
		{"roman", []string{"i. one", "ii. two", "iii. three"}, "lower-roman", []int{1, 2, 3}, true, true},
		{"mixed", []string{"a. X", "1. Y"}, "lower-latin", []int{1, 1}, false, false},
		{"partial", []string{"1. Foo", "Bar"}, "decimal", []int{1}, false, false},
		{"repeated", []string{"イ. one", "イ. two", "イ. three"}, "katakana-iroha", []int{1, 2, 3}, true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			lists := analyzer().Analyze(bulletTree(tc.texts...))
			require.Len(t, lists, 1)
			l := lists[0]
			require.NotNil(t, l.Run)
			assert.Equal(t, tc.typ, l.Run.Type)
			assert.Equal(t, tc.ordinals, l.Run.Ordinals)
			assert.Equal(t, tc.consistent, l.Run.Consistent)
			assert.Equal(t, tc.convert, l.ShouldConvert)
			assert.False(t, l.Loose)
		})
	}
}

func TestAnalyze_noMarkers(t *testing.T) {
	lists := analyzer().Analyze(bulletTree("Foo", "Bar"))
	require.Len(t, lists, 1)
	assert.Nil(t, lists[0].Run)
	assert.False(t, lists[0].ShouldConvert)
}

func TestAnalyze_tieBreak(t *testing.T) {
	tree := bulletTree("a. X", "1. Y")
	a := analyzer()
	assert.Equal(t, "lower-latin", a.Analyze(tree)[0].Run.Type)
	a.TieBreak = LastSeen
	assert.Equal(t, "decimal", a.Analyze(tree)[0].Run.Type)
}

func TestAnalyze_orderedLists(t *testing.T) {
	b := blocktree.NewBuilder(0)
	list := b.List(blocktree.OrderedListOpen, "Foo", "Bar", "Baz")
	list.Delim = ')'
	tree := b.Tree()
	tree.Nodes[1].Ordinal = 3
	tree.Nodes[11].Ordinal = 7

	lists := analyzer().Analyze(tree)
	require.Len(t, lists, 1)
	l := lists[0]
	assert.False(t, l.ShouldConvert, "already ordered")
	require.NotNil(t, l.Run)
	assert.True(t, l.Run.Consistent)
	assert.Equal(t, []int{3, 4, 7}, l.Run.Ordinals)
	assert.Equal(t, "3)", l.Run.Markers[0].Source)

	list.Flags |= blocktree.Literal
	for i, text := range []string{"1. Foo", "2. Bar", "3. Baz"} {
		tree.Nodes[2+5*i+1].Text = text
	}
	l = analyzer().Analyze(tree)[0]
	assert.True(t, l.ShouldConvert, "literal lists read markers from text")
	assert.Equal(t, []int{1, 2, 3}, l.Run.Ordinals)
}

func TestAnalyze_loose(t *testing.T) {
	b := blocktree.NewBuilder(0)
	b.Open(blocktree.BulletListOpen)
	for _, text := range []string{"1. Foo", "2. Bar"} {
		b.Open(blocktree.ItemOpen)
		b.Paragraph(text, false)
		b.Close()
	}
	tree := b.Tree()
	assert.True(t, analyzer().Analyze(tree)[0].Loose)

	b = blocktree.NewBuilder(0)
	b.Open(blocktree.BulletListOpen)
	b.Open(blocktree.ItemOpen)
	b.Paragraph("1. Foo", false)
	tree = b.Tree()
	assert.False(t, analyzer().Analyze(tree)[0].Loose, "a lone tight item is never loose")

	b = blocktree.NewBuilder(0)
	b.Open(blocktree.BulletListOpen)
	b.Open(blocktree.ItemOpen)
	b.Paragraph("1. Foo", false)
	b.Paragraph("more", false)
	tree = b.Tree()
	l := analyzer().Analyze(tree)[0]
	assert.True(t, l.Loose)
	assert.Equal(t, 2, l.Items[0].Paragraphs)
	assert.False(t, l.Items[0].Tight())
}

func TestAnalyze_looseBeforeNested(t *testing.T) {
	b := blocktree.NewBuilder(0)
	b.Open(blocktree.BulletListOpen)
	b.Open(blocktree.ItemOpen)
	b.Paragraph("a. Parent", false).Lines = blocktree.LineRange{Start: 0, End: 1}
	inner := b.List(blocktree.BulletListOpen, "i. x", "ii. y")
	inner.Lines = blocktree.LineRange{Start: 2, End: 4}
	tree := b.Tree()

	l := analyzer().Analyze(tree)[0]
	assert.True(t, l.Items[0].FirstParagraphLoose)
	assert.False(t, l.Items[0].Tight())
	assert.True(t, l.Loose, "a blank line before the nested list loosens a lone item")

	tree = blocktree.FromGoldmark([]byte("- a. Parent\n\n  - i. x\n  - ii. y\n"))
	assert.True(t, analyzer().Analyze(tree)[0].Loose)

	tree = blocktree.FromGoldmark([]byte("- a. Parent\n  - i. x\n  - ii. y\n"))
	assert.False(t, analyzer().Analyze(tree)[0].Loose)
}

func TestAnalyze_looseAfterNested(t *testing.T) {
	b := blocktree.NewBuilder(0)
	b.Open(blocktree.BulletListOpen)
	b.Open(blocktree.ItemOpen)
	b.List(blocktree.BulletListOpen, "i. x", "ii. y")
	b.Paragraph("a. after", false)
	b.Close()
	b.Open(blocktree.ItemOpen)
	b.Paragraph("b. two", true)
	tree := b.Tree()

	l := analyzer().Analyze(tree)[0]
	require.Len(t, l.Items, 2)
	assert.Equal(t, blocktree.ParagraphOpen, l.Items[0].First.Kind)
	assert.True(t, l.Loose, "a visible paragraph after a nested list loosens the list")
}

func TestAnalyze_nested(t *testing.T) {
	b := blocktree.NewBuilder(0)
	b.Open(blocktree.BulletListOpen)
	b.Open(blocktree.ItemOpen)
	p := b.Paragraph("1. Foo", false)
	p.Lines = blocktree.LineRange{Start: 0, End: 1}
	inner := b.List(blocktree.BulletListOpen, "a. x", "b. y")
	inner.Lines = blocktree.LineRange{Start: 2, End: 4}
	b.Close()
	b.Item("2. Bar")
	tree := b.Tree()

	lists := analyzer().Analyze(tree)
	require.Len(t, lists, 2)
	outer, nested := lists[0], lists[1]
	assert.Equal(t, 0, outer.Node.Depth)
	assert.Equal(t, 2, nested.Node.Depth)
	require.Len(t, outer.Items, 2)

	it := outer.Items[0]
	assert.Equal(t, []*List{nested}, it.Nested)
	assert.Equal(t, 1, it.Leading)
	assert.True(t, it.FirstParagraphLoose)
	assert.Equal(t, "1. Foo", it.Inline.Text)
	assert.Equal(t, "decimal", it.Marker.Type)
	assert.Equal(t, "lower-latin", nested.Run.Type)
	assert.True(t, outer.ShouldConvert)
	assert.True(t, nested.ShouldConvert)
}

func TestAnalyze_scopes(t *testing.T) {
	b := blocktree.NewBuilder(0)
	b.Open(blocktree.DescListOpen)
	b.Open(blocktree.TermOpen)
	b.Leaf(blocktree.Inline, "Term")
	b.Close()
	b.Open(blocktree.DetailsOpen)
	b.List(blocktree.BulletListOpen, "1. Foo", "2. Bar")
	b.Close()
	b.Close()
	b.Open(blocktree.BlockquoteOpen)
	b.List(blocktree.BulletListOpen, "a. x", "b. y")
	b.Close()
	tree := b.Tree()

	lists := analyzer().Analyze(tree)
	require.Len(t, lists, 2)
	assert.Equal(t, "decimal", lists[0].Run.Type)
	assert.Equal(t, 2, lists[0].Node.Depth)
	assert.Equal(t, "lower-latin", lists[1].Run.Type)
	assert.Equal(t, 1, lists[1].Node.Depth)
}

func TestAnalyze_unbalanced(t *testing.T) {
	b := blocktree.NewBuilder(0)
	b.Open(blocktree.BulletListOpen)
	b.Item("1. Foo")
	b.Item("2. Bar")
	tree := &blocktree.Tree{Nodes: b.Nodes()}

	lists := analyzer().Analyze(tree)
	require.Len(t, lists, 1)
	assert.Len(t, lists[0].Items, 2)
	assert.True(t, lists[0].ShouldConvert)
}

func TestSequence(t *testing.T) {
	reg := markers.MustDefault()
	match := func(texts ...string) (ms []markers.Marker) {
		for _, text := range texts {
			m, ok := reg.Match(text)
			require.True(t, ok, text)
			ms = append(ms, m)
		}
		return ms
	}
	for _, tc := range []struct {
		name   string
		texts  []string
		want   []int
		allOne bool
	}{
		{"counting", []string{"1. a", "2. b", "3. c"}, []int{1, 2, 3}, false},
		{"all ones", []string{"1. a", "1. b", "1. c"}, []int{1, 2, 3}, true},
		{"restart", []string{"1. a", "1. b", "5. c", "5. d"}, []int{1, 2, 5, 6}, false},
		{"repeated iroha", []string{"イ. a", "イ. b"}, []int{1, 2}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ords, allOne := Sequence(match(tc.texts...))
			assert.Equal(t, tc.want, ords)
			assert.Equal(t, tc.allOne, allOne)
		})
	}
}
