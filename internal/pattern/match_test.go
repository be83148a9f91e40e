package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/shapelint/internal/syntax"
)

func leaf(kind syntax.Kind) *syntax.Tree { return syntax.New(kind) }

func TestMatchVariant(t *testing.T) {
	t.Parallel()

	ifNoElse := syntax.New(syntax.KindIf, leaf(syntax.KindIdent), syntax.New(syntax.KindBlock))
	ifElse := syntax.New(syntax.KindIf, leaf(syntax.KindIdent), syntax.New(syntax.KindBlock), syntax.New(syntax.KindBlock))

	tests := []struct {
		name    string
		pattern Pattern
		node    syntax.Node
		want    bool
	}{
		{"kind and arity", V(syntax.KindIf, Any(), Kind(syntax.KindBlock)), ifNoElse, true},
		{"arity mismatch", V(syntax.KindIf, Any(), Any()), ifElse, false},
		{"optional else absent", V(syntax.KindIf, Any(), Any(), Maybe(Any())), ifNoElse, true},
		{"optional else present", V(syntax.KindIf, Any(), Any(), Maybe(Any())), ifElse, true},
		{"kind mismatch", V(syntax.KindWhile, Any(), Any()), ifNoElse, false},
		{"kind only", Kind(syntax.KindIf), ifElse, true},
		{"empty slots need no children", V(syntax.KindBlock), syntax.New(syntax.KindBlock), true},
		{"empty slots reject children", V(syntax.KindBlock), syntax.New(syntax.KindBlock, leaf(syntax.KindExpr)), false},
		{"wildcard", Any(), ifElse, true},
		{"nested child kind", V(syntax.KindIf, Kind(syntax.KindCall), Any()), ifNoElse, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := MustCompile(tt.pattern)
			_, ok := m.Match(tt.node)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestMatchNilNode(t *testing.T) {
	t.Parallel()
	m := MustCompile(Any())
	caps, ok := m.Match(nil)
	assert.False(t, ok)
	assert.Nil(t, caps)
}

func TestEarliestAnchor(t *testing.T) {
	t.Parallel()

	s0 := leaf(syntax.KindExpr)
	s1 := syntax.New(syntax.KindIf, leaf(syntax.KindIdent), syntax.New(syntax.KindBlock))
	s2 := leaf(syntax.KindExpr)
	s3 := syntax.New(syntax.KindIf, leaf(syntax.KindIdent), syntax.New(syntax.KindBlock))
	block := syntax.New(syntax.KindBlock, s0, s1, s2, s3)

	m := MustCompile(V(syntax.KindBlock,
		Many(Any()),
		Bind("anchor", Kind(syntax.KindIf)),
		Bind("tail", Many(Any())),
	))

	caps, ok := m.Match(block)
	require.True(t, ok)
	assert.Same(t, s1, caps.Node("anchor"))
	assert.Equal(t, []syntax.Node{s2, s3}, caps.Seq("tail"))
}

func TestAnchorWithoutTailCapture(t *testing.T) {
	t.Parallel()

	block := syntax.New(syntax.KindBlock, leaf(syntax.KindExpr), leaf(syntax.KindContinue), leaf(syntax.KindExpr))
	m := MustCompile(V(syntax.KindBlock, Many(Any()), Kind(syntax.KindContinue), Many(Any())))

	caps, ok := m.Match(block)
	require.True(t, ok)
	assert.Equal(t, 0, caps.Len())

	_, ok = m.Match(syntax.New(syntax.KindBlock, leaf(syntax.KindExpr), leaf(syntax.KindExpr)))
	assert.False(t, ok, "no sibling satisfies the anchor")
}

func TestTrailingAnchorCapturesEmptyTail(t *testing.T) {
	t.Parallel()

	last := leaf(syntax.KindContinue)
	block := syntax.New(syntax.KindBlock, leaf(syntax.KindExpr), last)
	m := MustCompileString(`Block(_* Continue#c _*#tail)`)

	caps, ok := m.Match(block)
	require.True(t, ok)
	assert.Same(t, last, caps.Node("c"))
	v, bound := caps.Get("tail")
	require.True(t, bound)
	assert.Equal(t, SeqValue, v.Kind())
	assert.False(t, v.Present())
	assert.Empty(t, caps.Seq("tail"))
}

func TestMatchDeterministic(t *testing.T) {
	t.Parallel()

	loop := syntax.New(syntax.KindLoop,
		syntax.New(syntax.KindBlock,
			leaf(syntax.KindExpr),
			syntax.New(syntax.KindIf, leaf(syntax.KindIdent), syntax.New(syntax.KindBlock),
				syntax.New(syntax.KindBlock, syntax.New(syntax.KindContinue))),
			leaf(syntax.KindExpr),
		),
	)
	m := MustCompileString(`some_loop(Block(_* If(_#cond, _, Block(Continue(_?#cl) _*))#if _*#tail), _?#label)`)

	first, ok := m.Match(loop)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := m.Match(loop)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestOptionalCapture(t *testing.T) {
	t.Parallel()

	m := MustCompileString(`Continue(_?#label)`)

	caps, ok := m.Match(syntax.New(syntax.KindContinue))
	require.True(t, ok)
	v, bound := caps.Get("label")
	require.True(t, bound)
	assert.Equal(t, OptValue, v.Kind())
	_, present := caps.Opt("label")
	assert.False(t, present)

	lbl := syntax.NewLabel("outer")
	caps, ok = m.Match(syntax.New(syntax.KindContinue, lbl))
	require.True(t, ok)
	got, present := caps.Opt("label")
	assert.True(t, present)
	assert.Same(t, lbl, got)
}

func TestAlternationFirstBranchWins(t *testing.T) {
	t.Parallel()

	call := leaf(syntax.KindCall)
	stmt := syntax.New(syntax.KindExpr, call)
	m := MustCompile(Or(
		Bind("first", V(syntax.KindExpr, Any())),
		Bind("second", V(syntax.KindExpr, Bind("inner", Kind(syntax.KindCall)))),
	))

	caps, ok := m.Match(stmt)
	require.True(t, ok)
	assert.Equal(t, []string{"first"}, caps.Names())
}

func TestAlternationDiscardsFailedBranchBindings(t *testing.T) {
	t.Parallel()

	call := leaf(syntax.KindCall)
	stmt := syntax.New(syntax.KindSemi, call)
	m := MustCompileString(`Expr(_#e) | Semi(_#e)`)

	caps, ok := m.Match(stmt)
	require.True(t, ok)
	assert.Same(t, call, caps.Node("e"))
	assert.Equal(t, 1, caps.Len())
}

func TestBacktrackingUndoesBindings(t *testing.T) {
	t.Parallel()

	// the first If fails on its else slot after binding cond; only the
	// second If may contribute bindings
	firstCond := leaf(syntax.KindIdent)
	secondCond := leaf(syntax.KindIdent)
	block := syntax.New(syntax.KindBlock,
		syntax.New(syntax.KindIf, firstCond, syntax.New(syntax.KindBlock)),
		syntax.New(syntax.KindIf, secondCond, syntax.New(syntax.KindBlock), syntax.New(syntax.KindBlock)),
	)
	m := MustCompileString(`Block(_* If(_#cond, _, Block) _*)`)

	caps, ok := m.Match(block)
	require.True(t, ok)
	assert.Same(t, secondCond, caps.Node("cond"))
}

func TestFindAll(t *testing.T) {
	t.Parallel()

	inner := syntax.New(syntax.KindIf, leaf(syntax.KindIdent), syntax.New(syntax.KindBlock))
	outer := syntax.New(syntax.KindIf, leaf(syntax.KindIdent), syntax.New(syntax.KindBlock, inner))

	m := MustCompileString(`If(_, _)`)
	found := m.FindAll(outer)
	require.Len(t, found, 2)
	assert.Same(t, outer, found[0].Node)
	assert.Same(t, inner, found[1].Node)
}
