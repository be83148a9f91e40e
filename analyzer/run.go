package analyzer

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/gnolang/shapelint/internal/gosyntax"
	"github.com/gnolang/shapelint/internal/lints"
	"github.com/gnolang/shapelint/internal/nolint"
)

// ErrResultMissing is returned when the inspector result is not available.
var ErrResultMissing = errors.New("analyzer result missing")

type runOptions struct {
	// disabled holds the names of rules that are not run.
	disabled map[string]bool

	// advisory attaches fixes to suggestions that need review.
	advisory bool

	// generated includes files carrying a "Code generated" header.
	generated bool
}

func defaultRunOptions() *runOptions {
	return &runOptions{disabled: make(map[string]bool)}
}

func (r *runOptions) rules() []lints.Rule {
	var rules []lints.Rule
	for _, rule := range lints.DefaultRegistry().Rules() {
		if !r.disabled[rule.Name()] {
			rules = append(rules, rule)
		}
	}

	return rules
}

func (r *runOptions) run(p *analysis.Pass) (any, error) {
	in, ok := p.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("%s: %s %w", name, inspect.Analyzer.Name, ErrResultMissing)
	}

	rules := r.rules()
	if len(rules) == 0 {
		return nil, nil
	}

	for c := range in.Root().Preorder((*ast.File)(nil)) {
		file, ok := c.Node().(*ast.File)
		if !ok {
			continue
		}
		if !r.generated && ast.IsGenerated(file) {
			continue
		}

		tf := p.Fset.File(file.Pos())
		if tf == nil {
			continue
		}

		src, err := p.ReadFile(tf.Name())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		// cgo rewrites files, so the bytes on disk need not match
		f, err := gosyntax.NewFile(p.Fset, file, src)
		if err != nil {
			continue
		}

		nl := nolint.Parse(f)
		for _, d := range lints.Run(f, f.Walk, rules...) {
			if nl.IsNolint(int(d.Span.Lo), d.Rule) {
				continue
			}
			p.Report(r.diagnostic(tf, d))
		}
	}

	return nil, nil
}

func (r *runOptions) diagnostic(tf *token.File, d lints.Diagnostic) analysis.Diagnostic {
	diag := analysis.Diagnostic{
		Pos:      tf.Pos(int(d.Span.Lo)),
		End:      tf.Pos(int(d.Span.Hi)),
		Category: d.Rule,
		Message:  d.Message,
	}

	s := d.Suggestion
	if s == nil || (s.Applicability != lints.MachineApplicable && !r.advisory) {
		return diag
	}

	message := s.Message
	if d.Help != "" {
		message = d.Help
	}
	diag.SuggestedFixes = []analysis.SuggestedFix{{
		Message: message,
		TextEdits: []analysis.TextEdit{{
			Pos:     tf.Pos(int(s.Span.Lo)),
			End:     tf.Pos(int(s.Span.Hi)),
			NewText: []byte(s.Replacement),
		}},
	}}

	return diag
}
