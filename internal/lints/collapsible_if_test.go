package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapsibleIf_Nested(t *testing.T) {
	t.Parallel()

	src := "package p\n\nfunc f() {\n\tif a { if b { f(); } }\n}\n"
	diags, f := check(t, NewCollapsibleIf(), src)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, "collapsible-if", d.Rule)
	assert.Equal(t, "this if statement can be collapsed", d.Message)
	assert.Equal(t, "if a { if b { f(); } }", text(t, f, d.Span))
	assert.Equal(t, "if a && b { f(); }", d.Suggestion.Replacement)
	assert.Equal(t, MachineApplicable, d.Suggestion.Applicability)
}

func TestCollapsibleIf_Multiline(t *testing.T) {
	t.Parallel()

	src := `package p

func f() {
	if a {
		if b || c {
			g()
		}
	}
}
`
	want := `package p

func f() {
	if a && (b || c) {
		g()
	}
}
`
	diags, f := check(t, NewCollapsibleIf(), src)
	require.Len(t, diags, 1)
	assert.Equal(t, want, apply(t, f, diags[0].Suggestion))
}

func TestCollapsibleIf_ElseIf(t *testing.T) {
	t.Parallel()

	src := `package p

func f() {
	if a {
		f()
	} else {
		if b {
			g()
		}
	}
}
`
	want := `package p

func f() {
	if a {
		f()
	} else if b {
		g()
	}
}
`
	diags, f := check(t, NewCollapsibleIf(), src)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, "this `else { if .. }` block can be collapsed", d.Message)
	assert.Equal(t, "{\n\t\tif b {\n\t\t\tg()\n\t\t}\n\t}", text(t, f, d.Span))
	assert.Equal(t, MachineApplicable, d.Suggestion.Applicability)
	assert.Equal(t, want, apply(t, f, d.Suggestion))
}

func TestCollapsibleIf_ElseIfChain(t *testing.T) {
	t.Parallel()

	src := `package p

func f() {
	if a {
		f()
	} else {
		if b {
			g()
		} else {
			h()
		}
	}
}
`
	diags, f := check(t, NewCollapsibleIf(), src)
	require.Len(t, diags, 1)
	assert.Contains(t, apply(t, f, diags[0].Suggestion), "} else if b {\n\t\tg()\n\t} else {\n\t\th()\n\t}")
}

func TestCollapsibleIf_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"leading comment", "if a { // keep\n if b { f(); } }"},
		{"block comment", "if a { /* keep */ if b { f() } }"},
		{"trailing comment", "if a {\n\t\tif b {\n\t\t\tg()\n\t\t}\n\t\t// trailing\n\t}"},
		{"outer init", "if x := f(); x { if b { g() } }"},
		{"inner init", "if a { if x := f(); x { g() } }"},
		{"outer else", "if a { if b { g() } } else { h() }"},
		{"inner else", "if a { if b { g() } else { h() } }"},
		{"two statements", "if a { g(); if b { h() } }"},
		{"else with comment", "if a { f() } else {\n\t\t// why\n\t\tif b { g() }\n\t}"},
		{"else with two statements", "if a { f() } else { g(); if b { h() } }"},
		{"no nesting", "if a { g() }"},
		{"labeled inner", "if a {\n\tL:\n\t\tif b { g() }\n\t}"},
		{"labeled else if", "if a { f() } else {\n\tL:\n\t\tif b { g() }\n\t}"},
		{"comment after outer condition", "if a /* why */ { if b { g() } }"},
		{"comment after inner condition", "if a { if b /* why */ { g() } }"},
		{"comment before outer condition", "if /* why */ a { if b { g() } }"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := "package p\n\nfunc f() {\n\t" + tt.body + "\n}\n"
			diags, _ := check(t, NewCollapsibleIf(), src)
			assert.Empty(t, diags)
		})
	}
}

func TestCollapsibleIf_ExpansionContext(t *testing.T) {
	t.Parallel()

	src := "package p\n\nfunc f() {\n\tif a {\n//line gen.tmpl:1\n\t\tif b {\n\t\t\tg()\n\t\t}\n\t}\n}\n"
	diags, _ := check(t, NewCollapsibleIf(), src)
	assert.Empty(t, diags)
}
