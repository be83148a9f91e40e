package gosyntax

import (
	"go/ast"
	"go/token"
	"sync"

	"github.com/gnolang/shapelint/internal/syntax"
)

// node is the lazy syntax view of one go/ast statement or expression.
type node struct {
	file *File
	n    ast.Node
	kind syntax.Kind

	once sync.Once
	kids []syntax.Node
}

var _ syntax.Node = (*node)(nil)

func (w *node) Kind() syntax.Kind { return w.kind }

func (w *node) Span() syntax.Span {
	return w.file.Span(w.n.Pos(), w.n.End())
}

func (w *node) Label() string {
	switch v := w.n.(type) {
	case *ast.BranchStmt:
		if v.Label != nil {
			return v.Label.Name
		}
	case ast.Stmt:
		if id, ok := w.file.labels[v]; ok {
			return id.Name
		}
	}
	return ""
}

func (w *node) Children() []syntax.Node {
	w.once.Do(func() {
		w.kids = w.children()
	})
	return w.kids
}

// AST returns the go/ast node behind a node produced by this package.
func AST(n syntax.Node) (ast.Node, bool) {
	w, ok := n.(*node)
	if !ok {
		return nil, false
	}
	return w.n, true
}

func (w *node) children() []syntax.Node {
	f := w.file
	var kids []syntax.Node
	add := func(n ast.Node) {
		if n == nil {
			return
		}
		if c := f.Node(n); c != nil {
			kids = append(kids, c)
		}
	}
	addTree := func(t *syntax.Tree) {
		if t != nil {
			kids = append(kids, t)
		}
	}

	switch v := w.n.(type) {
	case *ast.IfStmt:
		if v.Init != nil {
			let := syntax.New(syntax.KindLet, f.Node(v.Init), f.Node(v.Cond))
			let.Sp = f.Span(v.Init.Pos(), v.Cond.End())
			kids = append(kids, let)
		} else {
			add(v.Cond)
		}
		add(v.Body)
		if v.Else != nil {
			add(v.Else)
		}

	case *ast.BlockStmt:
		for _, s := range v.List {
			add(s)
		}

	case *ast.ForStmt:
		switch w.kind {
		case syntax.KindWhile:
			add(v.Cond)
		case syntax.KindForLoop:
			addTree(f.forClause(v))
		}
		add(v.Body)
		addTree(f.label(v))

	case *ast.RangeStmt:
		addTree(f.rangeClause(v))
		add(v.Body)
		addTree(f.label(v))

	case *ast.BranchStmt:
		if v.Label != nil {
			addTree(f.labelLeaf(v.Label))
		}

	case *ast.ExprStmt:
		add(v.X)

	case *ast.CallExpr:
		add(v.Fun)
		for _, a := range v.Args {
			add(a)
		}

	case *ast.ParenExpr:
		add(v.X)

	case *ast.SelectorExpr:
		add(v.X)
		add(v.Sel)

	case *ast.IndexExpr:
		add(v.X)
		add(v.Index)

	case *ast.UnaryExpr:
		add(v.X)

	case *ast.BinaryExpr:
		add(v.X)
		add(v.Y)
	}
	return kids
}

func (f *File) forClause(v *ast.ForStmt) *syntax.Tree {
	var parts []syntax.Node
	lo, hi := token.NoPos, token.NoPos
	for _, n := range []ast.Node{v.Init, v.Cond, v.Post} {
		if n == nil {
			continue
		}
		parts = append(parts, f.Node(n))
		if !lo.IsValid() {
			lo = n.Pos()
		}
		hi = n.End()
	}
	clause := syntax.New(syntax.KindForClause, parts...)
	clause.Sp = f.Span(lo, hi)
	return clause
}

func (f *File) rangeClause(v *ast.RangeStmt) *syntax.Tree {
	var parts []syntax.Node
	lo := v.X.Pos()
	for _, n := range []ast.Expr{v.Key, v.Value} {
		if n == nil {
			continue
		}
		parts = append(parts, f.Node(n))
		if n.Pos() < lo {
			lo = n.Pos()
		}
	}
	parts = append(parts, f.Node(v.X))
	clause := syntax.New(syntax.KindRangeClause, parts...)
	clause.Sp = f.Span(lo, v.X.End())
	return clause
}

func kindOf(n ast.Node) syntax.Kind {
	switch v := n.(type) {
	case *ast.IfStmt:
		return syntax.KindIf
	case *ast.BlockStmt:
		return syntax.KindBlock
	case *ast.ForStmt:
		switch {
		case v.Init == nil && v.Cond == nil && v.Post == nil:
			return syntax.KindLoop
		case v.Init == nil && v.Post == nil:
			return syntax.KindWhile
		default:
			return syntax.KindForLoop
		}
	case *ast.RangeStmt:
		return syntax.KindForLoop
	case *ast.BranchStmt:
		switch v.Tok {
		case token.CONTINUE:
			return syntax.KindContinue
		case token.BREAK:
			return syntax.KindBreak
		}
		return syntax.KindStmt
	case *ast.ExprStmt:
		return syntax.KindExpr
	case *ast.DeclStmt:
		return syntax.KindDecl
	case *ast.AssignStmt:
		if v.Tok == token.DEFINE {
			return syntax.KindDecl
		}
		return syntax.KindStmt
	case *ast.Ident:
		return syntax.KindIdent
	case *ast.CallExpr:
		return syntax.KindCall
	case *ast.ParenExpr:
		return syntax.KindParen
	case *ast.SelectorExpr:
		return syntax.KindSelector
	case *ast.IndexExpr:
		return syntax.KindIndex
	case *ast.BasicLit:
		return syntax.KindBasicLit
	case *ast.UnaryExpr:
		if v.Op == token.NOT {
			return syntax.KindNot
		}
		return syntax.KindUnary
	case *ast.BinaryExpr:
		switch v.Op {
		case token.LAND:
			return syntax.KindAnd
		case token.LOR:
			return syntax.KindOr
		}
		return syntax.KindBinary
	case ast.Stmt:
		return syntax.KindStmt
	}
	return syntax.KindOther
}
