package syntax

import "strings"

// Tree is a plain in-memory Node. Hosts that already materialize their syntax
// can build Trees directly; tests use them to describe shapes without a parser.
type Tree struct {
	K     Kind
	Kids  []Node
	Sp    Span
	Ident string
}

var _ Node = (*Tree)(nil)

func (t *Tree) Kind() Kind       { return t.K }
func (t *Tree) Children() []Node { return t.Kids }
func (t *Tree) Span() Span       { return t.Sp }
func (t *Tree) Label() string    { return t.Ident }

// New returns a Tree of the given kind and children. Nil children are dropped.
func New(kind Kind, children ...Node) *Tree {
	kids := make([]Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			kids = append(kids, c)
		}
	}
	return &Tree{K: kind, Kids: kids}
}

// NewLabel returns a Label leaf carrying name.
func NewLabel(name string) *Tree {
	return &Tree{K: KindLabel, Ident: name}
}

// WithSpan sets the span of t and returns it.
func (t *Tree) WithSpan(lo, hi uint32) *Tree {
	t.Sp = Span{Lo: lo, Hi: hi, Ctx: t.Sp.Ctx}
	return t
}

// WithContext sets the expansion context of t and returns it.
func (t *Tree) WithContext(ctx Context) *Tree {
	t.Sp.Ctx = ctx
	return t
}

// WithLabel attaches a label to t: it is returned by Label and appended as a
// trailing Label child.
func (t *Tree) WithLabel(name string) *Tree {
	t.Ident = name
	t.Kids = append(t.Kids, NewLabel(name))
	return t
}

// Dump renders a node as a one-line S-expression, e.g. "Block(If(Ident, Block))".
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n)
	return b.String()
}

func dump(b *strings.Builder, n Node) {
	if n == nil {
		b.WriteString("()")
		return
	}
	b.WriteString(string(n.Kind()))
	if n.Kind() == KindLabel && n.Label() != "" {
		b.WriteString(":" + n.Label())
	}
	kids := n.Children()
	if len(kids) == 0 {
		return
	}
	b.WriteByte('(')
	for i, c := range kids {
		if i > 0 {
			b.WriteString(", ")
		}
		dump(b, c)
	}
	b.WriteByte(')')
}

// StringSource is a Source over an in-memory string.
type StringSource string

// Snippet implements Source.
func (s StringSource) Snippet(span Span) (string, bool) {
	if span.Lo > span.Hi || int(span.Hi) > len(s) {
		return "", false
	}
	return string(s[span.Lo:span.Hi]), true
}

// Indent implements Indenter.
func (s StringSource) Indent(span Span) string {
	if int(span.Lo) > len(s) {
		return ""
	}
	start := strings.LastIndexByte(string(s[:span.Lo]), '\n') + 1
	line := string(s[start:])
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
