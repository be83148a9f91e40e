package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/shapelint/internal/gosyntax"
	"github.com/gnolang/shapelint/internal/syntax"
)

func check(t *testing.T, rule Rule, src string) ([]Diagnostic, *gosyntax.File) {
	t.Helper()
	f, err := gosyntax.Parse("test.go", []byte(src))
	require.NoError(t, err)
	return Run(f, f.Walk, rule), f
}

func apply(t *testing.T, f *gosyntax.File, s *Suggestion) string {
	t.Helper()
	require.NotNil(t, s)
	src := string(f.Src)
	return src[:s.Span.Lo] + s.Replacement + src[s.Span.Hi:]
}

func text(t *testing.T, f *gosyntax.File, span syntax.Span) string {
	t.Helper()
	s, ok := f.Snippet(span)
	require.True(t, ok)
	return s
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	assert.Equal(t, []string{"collapsible-if", "needless-continue"}, reg.Names())
	assert.Len(t, reg.Rules(), 2)

	rule, ok := reg.Lookup("needless-continue")
	require.True(t, ok)
	assert.NotEmpty(t, rule.Doc())
	assert.Equal(t, Pedantic, rule.Category())

	rule, ok = reg.Lookup("collapsible-if")
	require.True(t, ok)
	assert.Equal(t, Style, rule.Category())

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)

	_, err := NewRegistry(NewCollapsibleIf(), NewCollapsibleIf())
	assert.Error(t, err)
}

func TestCompareLabels(t *testing.T) {
	t.Parallel()

	a, b := syntax.NewLabel("a"), syntax.NewLabel("b")
	tests := []struct {
		name       string
		loop, cont syntax.Node
		want       bool
	}{
		{"unlabeled continue in unlabeled loop", nil, nil, true},
		{"unlabeled continue in labeled loop", a, nil, true},
		{"labeled continue in unlabeled loop", nil, a, false},
		{"same label", a, syntax.NewLabel("a"), true},
		{"different label", a, b, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, compareLabels(tt.loop, tt.cont))
		})
	}
}

func TestApplicabilityString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "machine-applicable", MachineApplicable.String())
	assert.Equal(t, "advisory", Advisory.String())
	assert.Equal(t, "Applicability(7)", Applicability(7).String())
}

func TestCollector(t *testing.T) {
	t.Parallel()

	var c Collector
	ctx := NewContext(syntax.StringSource("x"), c.Report)
	ctx.Report(Diagnostic{Rule: "r"})
	assert.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, "x", ctx.Snippet(syntax.Span{Lo: 0, Hi: 1}, ".."))
	assert.Equal(t, "..", ctx.Snippet(syntax.Span{Lo: 0, Hi: 9}, ".."))

	assert.NotPanics(t, func() { NewContext(nil, nil).Report(Diagnostic{}) })
}
