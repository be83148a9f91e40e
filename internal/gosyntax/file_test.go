package gosyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/shapelint/internal/syntax"
)

const loops = `package p

func f(xs []int) {
outer:
	for {
		for i := 0; i < 3; i++ {
			if x := g(); x > 0 {
				continue outer
			}
		}
		for len(xs) > 0 {
			break
		}
		for _, x := range xs {
			if !ok(x) || x == 1 {
				h(x)
			} else if x > 2 {
			}
		}
	}
}
`

func collect(f *File, kind syntax.Kind) []syntax.Node {
	var out []syntax.Node
	f.Walk(func(n syntax.Node) {
		if n.Kind() == kind {
			out = append(out, n)
		}
	})
	return out
}

func TestKinds(t *testing.T) {
	t.Parallel()

	f, err := Parse("loops.go", []byte(loops))
	require.NoError(t, err)

	tests := []struct {
		kind  syntax.Kind
		index int
		want  string
	}{
		{syntax.KindForLoop, 0, "ForLoop(ForClause(Decl, Binary(Ident, BasicLit), Stmt), Block(If(Let(Decl, Binary(Ident, BasicLit)), Block(Continue(Label:outer)))))"},
		{syntax.KindWhile, 0, "While(Binary(Call(Ident, Ident), BasicLit), Block(Break))"},
		{syntax.KindForLoop, 1, "ForLoop(RangeClause(Ident, Ident, Ident), Block(If(Or(Not(Call(Ident, Ident)), Binary(Ident, BasicLit)), Block(Expr(Call(Ident, Ident))), If(Binary(Ident, BasicLit), Block))))"},
		{syntax.KindContinue, 0, "Continue(Label:outer)"},
		{syntax.KindBreak, 0, "Break"},
	}

	for _, tt := range tests {
		nodes := collect(f, tt.kind)
		require.Greater(t, len(nodes), tt.index, "kind %s", tt.kind)
		assert.Equal(t, tt.want, syntax.Dump(nodes[tt.index]))
	}
}

func TestLabeledLoop(t *testing.T) {
	t.Parallel()

	f, err := Parse("loops.go", []byte(loops))
	require.NoError(t, err)

	outer := collect(f, syntax.KindLoop)
	require.Len(t, outer, 1, "the labeled statement is not visited separately")
	assert.Equal(t, "outer", outer[0].Label())

	kids := outer[0].Children()
	require.Len(t, kids, 2)
	assert.Equal(t, syntax.KindBlock, kids[0].Kind())
	assert.Equal(t, syntax.KindLabel, kids[1].Kind())
	assert.Equal(t, "outer", kids[1].Label())

	text, ok := f.Snippet(kids[1].Span())
	require.True(t, ok)
	assert.Equal(t, "outer", text)

	for _, loop := range collect(f, syntax.KindForLoop) {
		assert.Empty(t, loop.Label())
	}
}

func TestNodeMemoized(t *testing.T) {
	t.Parallel()

	f, err := Parse("loops.go", []byte(loops))
	require.NoError(t, err)

	ifs := collect(f, syntax.KindIf)
	require.NotEmpty(t, ifs)
	n, ok := AST(ifs[0])
	require.True(t, ok)
	assert.Same(t, ifs[0], f.Node(n))

	_, ok = AST(syntax.New(syntax.KindIf))
	assert.False(t, ok)
	assert.Nil(t, f.Node(f.AST))
}

func TestSnippetAndIndent(t *testing.T) {
	t.Parallel()

	f, err := Parse("loops.go", []byte(loops))
	require.NoError(t, err)

	ifs := collect(f, syntax.KindIf)
	require.Len(t, ifs, 3)

	span := ifs[0].Span()
	text, ok := f.Snippet(span)
	require.True(t, ok)
	assert.Equal(t, "if x := g(); x > 0 {\n\t\t\t\tcontinue outer\n\t\t\t}", text)
	assert.Equal(t, "\t\t\t", f.Indent(span))
	assert.False(t, span.FromExpansion())

	pos := f.Position(span.Lo)
	assert.Equal(t, "loops.go", pos.Filename)
	assert.Equal(t, 7, pos.Line)
	assert.Equal(t, 4, pos.Column)

	_, ok = f.Snippet(syntax.Span{Lo: 0, Hi: uint32(len(loops) + 1)})
	assert.False(t, ok)
}

func TestLineDirectiveContext(t *testing.T) {
	t.Parallel()

	src := "package p\n\nfunc f() {\n\tif a {\n\t}\n//line gen.tmpl:10\n\tif b {\n\t}\n}\n"
	f, err := Parse("gen.go", []byte(src))
	require.NoError(t, err)

	ifs := collect(f, syntax.KindIf)
	require.Len(t, ifs, 2)
	assert.False(t, ifs[0].Span().FromExpansion())
	assert.True(t, ifs[1].Span().FromExpansion())
	assert.NotEqual(t, ifs[0].Span().Ctx, ifs[1].Span().Ctx)

	// reported positions stay physical
	assert.Equal(t, "gen.go", f.Position(ifs[1].Span().Lo).Filename)
}

func TestParseError(t *testing.T) {
	t.Parallel()

	_, err := Parse("bad.go", []byte("package p\nfunc {"))
	assert.Error(t, err)
}
