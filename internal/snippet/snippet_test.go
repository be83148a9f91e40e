package snippet

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/assert"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			input := strings.ReplaceAll(d.Input, `\t`, "\t")
			var out string
			switch d.Cmd {
			case "erode-front":
				out = ErodeFromFront(input)
			case "erode-back":
				out = ErodeFromBack(input)
			case "erode-block":
				out = ErodeBlock(input)
			case "trim":
				out = TrimMultiline(input, d.HasArg("ignore-first"))
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
			}
			return fmt.Sprintf("%q", out)
		})
	})
}

func TestErodeBlockInline(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a(); b();", ErodeBlock("{ a(); b(); }"))
}

func TestErodeTotal(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "{", "}", "{{{", "}}}", "   ", "\n\n", "{\n}", "x }"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			ErodeFromFront(in)
			ErodeFromBack(in)
			ErodeBlock(in)
			TrimMultiline(in, true)
			TrimMultiline(in, false)
		}, "input %q", in)
	}
}

func TestTrimMultilineBlankLines(t *testing.T) {
	t.Parallel()

	got := TrimMultiline("\t\ta()\n\n\t\t\n\t\tb()", false)
	assert.Equal(t, "a()\n\n\nb()", got)
}

func TestReindent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		indent string
		want   string
	}{
		{"single line", "if a {", "\t", "if a {"},
		{"later lines", "if a {\n\tb()\n}", "\t\t", "if a {\n\t\t\tb()\n\t\t}"},
		{"blank lines stay blank", "x\n\ny", "  ", "x\n\n  y"},
		{"empty indent", "x\ny", "", "x\ny"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Reindent(tt.input, tt.indent))
		})
	}
}

func TestIndentLines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "\ta()\n\n\tb()", IndentLines("a()\n\nb()", "\t"))
}

func TestLeadingIndent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "\t  ", LeadingIndent("\t  x := 1"))
	assert.Equal(t, "", LeadingIndent("x"))
	assert.Equal(t, "\t", LeadingIndent("\t"))
}

func TestStartsWithComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"{\n\t// note\n\tif b {}\n}", true},
		{"{ /* block */ if b {} }", true},
		{"{\n\tif b {} // trailing\n}", false},
		{"{}", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StartsWithComment(tt.input), "input %q", tt.input)
	}
}

func TestContainsComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"{ continue // skip\n}", true},
		{"{ /* x */ continue }", true},
		{`{ println("http://x") }`, false},
		{"{ println(`/* raw */`) }", false},
		{`{ c := '/'; d := "\"//" }`, false},
		{"{ a / b }", false},
		{`{ s := "a\\"; // real }`, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsComment(tt.input), "input %q", tt.input)
	}
}
