package sugg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/shapelint/internal/gosyntax"
	"github.com/gnolang/shapelint/internal/syntax"
)

// conds parses "if COND {}" for each condition and returns the file with the
// condition node of every if in order.
func conds(t *testing.T, cs ...string) (*gosyntax.File, []syntax.Node) {
	t.Helper()
	src := "package p\n\nfunc f() {\n"
	for _, c := range cs {
		src += "\tif " + c + " {\n\t}\n"
	}
	src += "}\n"

	f, err := gosyntax.Parse("cond.go", []byte(src))
	require.NoError(t, err)

	var out []syntax.Node
	f.Walk(func(n syntax.Node) {
		if n.Kind() == syntax.KindIf {
			out = append(out, n.Children()[0])
		}
	})
	require.Len(t, out, len(cs))
	return f, out
}

func TestNot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cond string
		want string
	}{
		{"a", "!a"},
		{"f(x)", "!f(x)"},
		{"s.ok", "!s.ok"},
		{"m[k]", "!m[k]"},
		{"(a)", "!(a)"},
		{"!a", "a"},
		{"!(a || b)", "a || b"},
		{"a && b", "!(a && b)"},
		{"a || b", "!(a || b)"},
		{"x > 0", "!(x > 0)"},
		{"x := f(); x > 0", "x := f(); !(x > 0)"},
		{"ok := m[k]; !ok", "ok := m[k]; ok"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.cond, func(t *testing.T) {
			t.Parallel()
			f, nodes := conds(t, tt.cond)
			assert.Equal(t, tt.want, Not(f, nodes[0], ".."))
		})
	}
}

func TestAnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		l, r string
		want string
	}{
		{"a", "b", "a && b"},
		{"a || b", "c", "(a || b) && c"},
		{"a && b", "c || d", "a && b && (c || d)"},
		{"x == 1", "!y", "x == 1 && !y"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			f, nodes := conds(t, tt.l, tt.r)
			assert.Equal(t, tt.want, And(f, nodes[0], nodes[1], ".."))
		})
	}
}

func TestNilNodes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "..", Not(nil, nil, ".."))
	assert.Equal(t, ".. && ..", And(nil, nil, nil, ".."))
}
