package analyzer

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
)

const (
	name = "shapelint"
	doc  = `shapelint reports if statements and loop bodies whose shape can be simplified`
	url  = "https://pkg.go.dev/github.com/gnolang/shapelint/analyzer"
)

// New creates a new shapelint analyzer with the given options.
func New(opts ...Option) *analysis.Analyzer {
	r := defaultRunOptions()
	Options(opts).apply(r)

	a := &analysis.Analyzer{
		Name:     name,
		Doc:      doc,
		URL:      url,
		Run:      r.run,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
	}

	registerFlags(&a.Flags, r)

	return a
}

// Analyzer is the shapelint analyzer with default options.
var Analyzer = New()
