// Package nolint resolves //nolint comments to the byte ranges they
// suppress.
package nolint

import (
	"errors"
	"go/ast"
	"go/token"
	"strings"

	"github.com/gnolang/shapelint/internal/gosyntax"
)

const (
	nolintPrefix = "//nolint"
	allRules     = "all"
)

var (
	errNotNolint    = errors.New("not a nolint comment")
	errBadFormat    = errors.New("invalid nolint comment format")
	errNoRulesGiven = errors.New("invalid nolint comment: no rules specified after colon")
)

// Manager answers whether a rule is suppressed at a byte offset of one file.
type Manager struct {
	scopes []scope
}

// scope is a half-open byte range [start, end) where the listed rules, or
// every rule when the set is empty, are suppressed.
type scope struct {
	rules map[string]struct{}
	start int
	end   int
}

// Parse collects the nolint scopes of f. Malformed comments are ignored.
//
// A comment before the package clause covers the whole file. A comment after
// code on the same line covers that line's first statement. A comment on its
// own line covers the statement or function declaration starting on the next
// line, or only its own line when there is none.
func Parse(f *gosyntax.File) *Manager {
	m := &Manager{}
	stmts := indexStatementsByLine(f)
	pkgLine := line(f, f.AST.Package)

	for _, cg := range f.AST.Comments {
		for _, c := range cg.List {
			rules, err := parseDirective(c.Text)
			if err != nil {
				continue
			}
			start, end := resolve(f, c, stmts, pkgLine)
			m.scopes = append(m.scopes, scope{rules: rules, start: start, end: end})
		}
	}
	return m
}

// parseDirective returns the rule set of a nolint comment. A trailing
// "// reason" is allowed and ignored.
func parseDirective(text string) (map[string]struct{}, error) {
	if !strings.HasPrefix(text, nolintPrefix) {
		return nil, errNotNolint
	}
	rest := text[len(nolintPrefix):]
	if i := strings.Index(rest, "//"); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimRight(rest, " \t")

	switch {
	case rest == "":
		return map[string]struct{}{}, nil
	case rest[0] != ':':
		return nil, errBadFormat
	}
	rest = strings.TrimSpace(rest[1:])
	if rest == "" {
		return nil, errNoRulesGiven
	}
	rules := parseIgnoreRuleNames(rest)
	if _, ok := rules[allRules]; ok {
		return map[string]struct{}{}, nil
	}
	return rules, nil
}

// parseIgnoreRuleNames parses the comma separated rule list.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rules := make(map[string]struct{})
	for _, rule := range strings.Split(text, ",") {
		if rule = strings.TrimSpace(rule); rule != "" {
			rules[rule] = struct{}{}
		}
	}
	return rules
}

func resolve(f *gosyntax.File, c *ast.Comment, stmts map[int]ast.Stmt, pkgLine int) (int, int) {
	cLine := line(f, c.Slash)
	if cLine < pkgLine {
		return 0, len(f.Src)
	}

	if stmt, ok := stmts[cLine]; ok && offset(f, c.Slash) > offset(f, stmt.Pos()) {
		return offset(f, stmt.Pos()), offset(f, stmt.End())
	}

	if stmt, ok := stmts[cLine+1]; ok {
		return offset(f, c.Slash), offset(f, stmt.End())
	}

	for _, decl := range f.AST.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && line(f, fn.Pos()) == cLine+1 {
			return offset(f, c.Slash), offset(f, fn.End())
		}
	}

	return lineBounds(f.Src, offset(f, c.Slash))
}

// indexStatementsByLine maps each line to the first statement starting on it.
func indexStatementsByLine(f *gosyntax.File) map[int]ast.Stmt {
	stmts := make(map[int]ast.Stmt)
	ast.Inspect(f.AST, func(n ast.Node) bool {
		if stmt, ok := n.(ast.Stmt); ok {
			l := line(f, stmt.Pos())
			if _, exists := stmts[l]; !exists {
				stmts[l] = stmt
			}
		}
		return n != nil
	})
	return stmts
}

func lineBounds(src []byte, off int) (int, int) {
	start := strings.LastIndexByte(string(src[:off]), '\n') + 1
	end := len(src)
	if i := strings.IndexByte(string(src[off:]), '\n'); i >= 0 {
		end = off + i
	}
	return start, end
}

func offset(f *gosyntax.File, pos token.Pos) int {
	return f.Fset.File(pos).Offset(pos)
}

func line(f *gosyntax.File, pos token.Pos) int {
	return f.Fset.PositionFor(pos, false).Line
}

// IsNolint reports whether ruleName is suppressed at byte offset off.
func (m *Manager) IsNolint(off int, ruleName string) bool {
	if m == nil {
		return false
	}
	for _, s := range m.scopes {
		if off < s.start || off >= s.end {
			continue
		}
		if len(s.rules) == 0 {
			return true
		}
		if _, ok := s.rules[ruleName]; ok {
			return true
		}
	}
	return false
}
