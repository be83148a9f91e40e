package pattern

import (
	"strings"

	"github.com/gnolang/shapelint/internal/syntax"
)

// Pattern is an immutable description of a tree shape.
type Pattern interface {
	// String renders the pattern in DSL syntax.
	String() string
	isPattern()
}

var (
	_ Pattern = (*Variant)(nil)
	_ Pattern = (*Wildcard)(nil)
	_ Pattern = (*Alternation)(nil)
	_ Pattern = (*Capture)(nil)
	_ Pattern = (*ZeroOrMore)(nil)
	_ Pattern = (*Optional)(nil)
)

// Variant matches a node of Kind whose children match Slots, in order.
// With AnyChildren set, the children are not inspected.
type Variant struct {
	Kind        syntax.Kind
	Slots       []Pattern
	AnyChildren bool
}

// Wildcard matches any single node.
type Wildcard struct{}

// Alternation matches the first branch that matches.
type Alternation struct {
	Branches []Pattern
}

// Capture binds whatever Inner matched under Name.
type Capture struct {
	Name  string
	Inner Pattern
}

// ZeroOrMore matches a run of siblings that each match Inner.
type ZeroOrMore struct {
	Inner Pattern
}

// Optional matches zero or one sibling matching Inner.
type Optional struct {
	Inner Pattern
}

func (*Variant) isPattern()     {}
func (*Wildcard) isPattern()    {}
func (*Alternation) isPattern() {}
func (*Capture) isPattern()     {}
func (*ZeroOrMore) isPattern()  {}
func (*Optional) isPattern()    {}

// V returns a Variant of kind whose children must match slots exactly.
func V(kind syntax.Kind, slots ...Pattern) *Variant {
	if slots == nil {
		slots = []Pattern{}
	}
	return &Variant{Kind: kind, Slots: slots}
}

// Kind returns a Variant that only checks the node kind.
func Kind(kind syntax.Kind) *Variant {
	return &Variant{Kind: kind, AnyChildren: true}
}

// Any returns the wildcard.
func Any() *Wildcard { return &Wildcard{} }

// Or returns an alternation of branches.
func Or(branches ...Pattern) *Alternation {
	return &Alternation{Branches: branches}
}

// Bind returns a capture of p under name.
func Bind(name string, p Pattern) *Capture {
	return &Capture{Name: name, Inner: p}
}

// Many returns a zero-or-more repetition of p.
func Many(p Pattern) *ZeroOrMore {
	return &ZeroOrMore{Inner: p}
}

// Maybe returns a zero-or-one repetition of p.
func Maybe(p Pattern) *Optional {
	return &Optional{Inner: p}
}

func (v *Variant) String() string {
	if v.AnyChildren {
		return string(v.Kind)
	}
	parts := make([]string, len(v.Slots))
	for i, s := range v.Slots {
		parts[i] = s.String()
	}
	return string(v.Kind) + "(" + strings.Join(parts, ", ") + ")"
}

func (*Wildcard) String() string { return "_" }

func (a *Alternation) String() string {
	parts := make([]string, len(a.Branches))
	for i, b := range a.Branches {
		parts[i] = group(b)
	}
	return strings.Join(parts, " | ")
}

func (c *Capture) String() string    { return group(c.Inner) + "#" + c.Name }
func (z *ZeroOrMore) String() string { return group(z.Inner) + "*" }
func (o *Optional) String() string   { return group(o.Inner) + "?" }

// group parenthesizes alternations so postfix operators bind to the whole.
func group(p Pattern) string {
	if _, ok := p.(*Alternation); ok {
		return "(" + p.String() + ")"
	}
	return p.String()
}
