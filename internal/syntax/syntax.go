// Package syntax defines the abstract tree the pattern engine matches against.
//
// A host (see package gosyntax) owns the real syntax tree and exposes it through
// the Node interface. The engine only reads nodes: it never mutates them and never
// keeps them beyond a single analysis pass.
package syntax

import "fmt"

// Kind is the variant tag of a node. The set of kinds is open so hosts can add
// their own; the constants below are the ones the built-in rules rely on.
type Kind string

const (
	KindIf          Kind = "If"
	KindBlock       Kind = "Block"
	KindLoop        Kind = "Loop"    // unconditional loop
	KindWhile       Kind = "While"   // conditional loop
	KindForLoop     Kind = "ForLoop" // three-clause or iterator loop
	KindForClause   Kind = "ForClause"
	KindRangeClause Kind = "RangeClause"
	KindContinue    Kind = "Continue"
	KindBreak       Kind = "Break"
	KindLabel       Kind = "Label"
	KindLet         Kind = "Let" // condition that introduces bindings
	KindExpr        Kind = "Expr"
	KindSemi        Kind = "Semi"
	KindIdent       Kind = "Ident"
	KindCall        Kind = "Call"
	KindParen       Kind = "Paren"
	KindSelector    Kind = "Selector"
	KindIndex       Kind = "Index"
	KindBasicLit    Kind = "BasicLit"
	KindNot         Kind = "Not"
	KindUnary       Kind = "Unary"
	KindAnd         Kind = "And"
	KindOr          Kind = "Or"
	KindBinary      Kind = "Binary"
	KindDecl        Kind = "Decl" // statement that declares names in its block
	KindStmt        Kind = "Stmt"
	KindOther       Kind = "Other"
)

// Context identifies where a span's text comes from. It is opaque: two contexts
// can only be compared for equality.
type Context struct {
	id string
}

// RootContext is the context of text written literally in the analyzed file.
var RootContext = Context{}

// NewContext returns the context identified by id. An empty id is RootContext.
func NewContext(id string) Context {
	return Context{id: id}
}

// Span is a half-open byte range [Lo, Hi) in the host's source, tagged with the
// context it originates from.
type Span struct {
	Lo  uint32
	Hi  uint32
	Ctx Context
}

// FromExpansion reports whether the span was produced by code generation rather
// than written in the file.
func (s Span) FromExpansion() bool {
	return s.Ctx != RootContext
}

// Len returns the number of bytes covered by s.
func (s Span) Len() uint32 {
	if s.Hi < s.Lo {
		return 0
	}
	return s.Hi - s.Lo
}

// To returns the span from the start of s to the end of end, in the context of s.
func (s Span) To(end Span) Span {
	hi := end.Hi
	if hi < s.Lo {
		hi = s.Lo
	}
	return Span{Lo: s.Lo, Hi: hi, Ctx: s.Ctx}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Lo, s.Hi)
}

// Node is a read-only view of one host tree node.
type Node interface {
	// Kind returns the node's variant tag.
	Kind() Kind
	// Children returns the ordered child nodes. Absent optional parts are
	// omitted rather than represented by nil.
	Children() []Node
	// Span returns the node's source range.
	Span() Span
	// Label returns the label identifier attached to the node, or "".
	Label() string
}

// Source resolves spans back to source text.
type Source interface {
	// Snippet returns the text covered by span, or false when the span does
	// not map to available text.
	Snippet(span Span) (string, bool)
}

// SnippetOr returns the text of span, or def when it cannot be resolved.
func SnippetOr(src Source, span Span, def string) string {
	if src == nil {
		return def
	}
	if text, ok := src.Snippet(span); ok {
		return text
	}
	return def
}

// Indenter is implemented by sources that know the indentation of the line a
// span starts on.
type Indenter interface {
	Indent(span Span) string
}

// IndentOf returns the indentation of the line span starts on, or "" when src
// cannot tell.
func IndentOf(src Source, span Span) string {
	if in, ok := src.(Indenter); ok {
		return in.Indent(span)
	}
	return ""
}

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. Children of a node are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children() {
		Inspect(c, f)
	}
}
