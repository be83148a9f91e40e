// Package gosyntax exposes Go source parsed by go/parser as syntax.Node trees.
//
// Nodes are wrapped lazily and memoized per File, so wrapping the same
// go/ast node twice yields the same syntax.Node. A File is safe for concurrent
// use once constructed.
package gosyntax

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strings"
	"sync"

	"fortio.org/safecast"

	"github.com/gnolang/shapelint/internal/syntax"
)

// File is one parsed Go file together with its source bytes.
type File struct {
	Fset *token.FileSet
	AST  *ast.File
	Src  []byte

	tf     *token.File
	labels map[ast.Stmt]*ast.Ident

	mu    sync.Mutex
	nodes map[ast.Node]*node
}

var (
	_ syntax.Source   = (*File)(nil)
	_ syntax.Indenter = (*File)(nil)
)

// Parse parses src as a Go file named filename, keeping comments.
func Parse(filename string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}
	return NewFile(fset, f, src)
}

// NewFile wraps an already parsed file. src must be the exact bytes f was
// parsed from.
func NewFile(fset *token.FileSet, f *ast.File, src []byte) (*File, error) {
	tf := fset.File(f.Pos())
	if tf == nil {
		return nil, fmt.Errorf("file %s is not part of the file set", f.Name.Name)
	}
	if tf.Size() != len(src) {
		return nil, fmt.Errorf("%s: source is %d bytes, file set records %d", tf.Name(), len(src), tf.Size())
	}
	file := &File{
		Fset:   fset,
		AST:    f,
		Src:    src,
		tf:     tf,
		labels: make(map[ast.Stmt]*ast.Ident),
		nodes:  make(map[ast.Node]*node),
	}
	ast.Inspect(f, func(n ast.Node) bool {
		if ls, ok := n.(*ast.LabeledStmt); ok {
			file.labels[ls.Stmt] = ls.Label
		}
		return true
	})
	return file, nil
}

// Filename returns the physical name of the file.
func (f *File) Filename() string {
	return f.tf.Name()
}

// Snippet implements syntax.Source.
func (f *File) Snippet(span syntax.Span) (string, bool) {
	if span.Lo > span.Hi || int64(span.Hi) > int64(len(f.Src)) {
		return "", false
	}
	return string(f.Src[span.Lo:span.Hi]), true
}

// Indent implements syntax.Indenter.
func (f *File) Indent(span syntax.Span) string {
	if int64(span.Lo) > int64(len(f.Src)) {
		return ""
	}
	start := strings.LastIndexByte(string(f.Src[:span.Lo]), '\n') + 1
	line := string(f.Src[start:])
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Position returns the physical position of a byte offset.
func (f *File) Position(off uint32) token.Position {
	if int64(off) > int64(f.tf.Size()) {
		off = uint32(f.tf.Size())
	}
	return f.tf.PositionFor(f.tf.Pos(int(off)), false)
}

// Span returns the span of [pos, end). The context is derived from //line
// directives: text whose reported file differs from the physical file is
// treated as generated.
func (f *File) Span(pos, end token.Pos) syntax.Span {
	return syntax.Span{
		Lo:  f.offset(pos),
		Hi:  f.offset(end),
		Ctx: f.context(pos),
	}
}

// Node returns the syntax view of n. Labeled statements are transparent: the
// labeled statement itself is returned, carrying the label. Nodes that are
// neither statements nor expressions return nil.
func (f *File) Node(n ast.Node) syntax.Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *ast.LabeledStmt:
		return f.Node(v.Stmt)
	case ast.Stmt, ast.Expr:
	default:
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.nodes[n]; ok {
		return w
	}
	w := &node{file: f, n: n, kind: kindOf(n)}
	f.nodes[n] = w
	return w
}

// Walk calls fn for every statement and expression of the file in depth-first
// source order.
func (f *File) Walk(fn func(syntax.Node)) {
	var visit func(ast.Node) bool
	visit = func(n ast.Node) bool {
		switch v := n.(type) {
		case nil:
			return false
		case *ast.LabeledStmt:
			ast.Inspect(v.Stmt, visit)
			return false
		case *ast.BranchStmt:
			fn(f.Node(v))
			return false
		case ast.Stmt, ast.Expr:
			fn(f.Node(v))
		}
		return true
	}
	ast.Inspect(f.AST, visit)
}

func (f *File) offset(pos token.Pos) uint32 {
	if !pos.IsValid() {
		return 0
	}
	off, err := safecast.Conv[uint32](f.tf.Offset(pos))
	if err != nil {
		return math.MaxUint32
	}
	return off
}

func (f *File) context(pos token.Pos) syntax.Context {
	if !pos.IsValid() {
		return syntax.RootContext
	}
	reported := f.tf.PositionFor(pos, true)
	if reported.Filename == "" || reported.Filename == f.tf.Name() {
		return syntax.RootContext
	}
	return syntax.NewContext(reported.Filename)
}

func (f *File) label(stmt ast.Stmt) *syntax.Tree {
	id, ok := f.labels[stmt]
	if !ok {
		return nil
	}
	return f.labelLeaf(id)
}

func (f *File) labelLeaf(id *ast.Ident) *syntax.Tree {
	lbl := syntax.NewLabel(id.Name)
	lbl.Sp = f.Span(id.Pos(), id.End())
	return lbl
}
